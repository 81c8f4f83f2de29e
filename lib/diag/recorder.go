package diag

import (
	"sync"
)

// Record is a single diagnostic captured by a Recorder.
type Record struct {
	Level   string         // "debug" for Start, "error" for Failure
	Message string         // method name or failure message
	Params  map[string]any // Start parameters, nil for failures
}

// Recorder is an in-memory Sink for tests.
//
// Thread-safety: Recorder is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	open    int
	stopped int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Start(method string, params map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Level: "debug", Message: method, Params: params})
	r.open++
}

func (r *Recorder) Stop(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open--
	r.stopped++
}

func (r *Recorder) Failure(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Level: "error", Message: message})
}

// Records returns a copy of all records, oldest first.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Debug returns the Start records in order.
func (r *Recorder) Debug() []Record { return r.byLevel("debug") }

// Errors returns the failure messages in order.
func (r *Recorder) Errors() []string {
	var out []string
	for _, rec := range r.byLevel("error") {
		out = append(out, rec.Message)
	}
	return out
}

// Open returns the number of started but not yet stopped operations.
func (r *Recorder) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

// Stopped returns the number of completed operations.
func (r *Recorder) Stopped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

func (r *Recorder) byLevel(level string) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Record
	for _, rec := range r.records {
		if rec.Level == level {
			out = append(out, rec)
		}
	}
	return out
}
