// Package util
//
// This file summarizes stored payload sizes for the stats report.
package util

import (
	"sort"
)

// SizeSummary describes a set of payload sizes in bytes. Average and Median
// are rounded down.
type SizeSummary struct {
	Count   int
	Sum     int64
	Average int
	Median  int
}

// Summarize computes the exact summary of sizes. An empty input yields the
// zero summary. sizes is not modified.
func Summarize(sizes []int) SizeSummary {
	if len(sizes) == 0 {
		return SizeSummary{}
	}

	sorted := make([]int, len(sizes))
	copy(sorted, sizes)
	sort.Ints(sorted)

	var sum int64
	for _, size := range sorted {
		sum += int64(size)
	}

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return SizeSummary{
		Count:   len(sorted),
		Sum:     sum,
		Average: int(sum / int64(len(sorted))),
		Median:  median,
	}
}
