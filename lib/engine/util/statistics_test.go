package util

import (
	"reflect"
	"testing"
)

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); got != (SizeSummary{}) {
		t.Errorf("Summarize(nil) = %+v, want the zero summary", got)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		want  SizeSummary
	}{
		{"single", []int{7}, SizeSummary{Count: 1, Sum: 7, Average: 7, Median: 7}},
		{"odd", []int{2000, 10, 10}, SizeSummary{Count: 3, Sum: 2020, Average: 673, Median: 10}},
		{"even", []int{4, 1, 3, 2}, SizeSummary{Count: 4, Sum: 10, Average: 2, Median: 2}},
		{"skewed", []int{10, 10, 10, 10, 10, 10, 10, 10, 10, 2000}, SizeSummary{Count: 10, Sum: 2090, Average: 209, Median: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.sizes); got != tt.want {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.sizes, got, tt.want)
			}
		})
	}
}

func TestSummarizeKeepsInput(t *testing.T) {
	sizes := []int{3, 1, 2}
	Summarize(sizes)
	if !reflect.DeepEqual(sizes, []int{3, 1, 2}) {
		t.Errorf("Summarize reordered its input: %v", sizes)
	}
}
