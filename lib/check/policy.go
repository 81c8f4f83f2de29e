package check

import (
	"sync"
)

// Policy turns check results into the client's failure behaviour. A failed
// check is always recorded and forwarded to OnFailure. In fail-fast mode the
// failure is then raised with panic(*AssertionFailure), otherwise Apply
// returns false and the caller returns its sentinel value.
//
// Thread-safety: Policy is safe for concurrent use.
type Policy struct {
	mu        sync.Mutex
	failFast  bool
	onFailure func(message string)
	failures  []*AssertionFailure
}

// NewPolicy creates a policy. onFailure may be nil.
func NewPolicy(failFast bool, onFailure func(message string)) *Policy {
	return &Policy{failFast: failFast, onFailure: onFailure}
}

// Apply handles the result of a check, a nil failure passes.
func (p *Policy) Apply(f *AssertionFailure) bool {
	if f == nil {
		return true
	}

	p.mu.Lock()
	p.failures = append(p.failures, f)
	failFast := p.failFast
	p.mu.Unlock()

	if p.onFailure != nil {
		p.onFailure(f.Message)
	}
	if failFast {
		panic(f)
	}
	return false
}

// SetFailFast switches between returning false and panicking on failures.
func (p *Policy) SetFailFast(failFast bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failFast = failFast
}

// Failures returns a copy of all recorded failures, oldest first.
func (p *Policy) Failures() []*AssertionFailure {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*AssertionFailure, len(p.failures))
	copy(out, p.failures)
	return out
}
