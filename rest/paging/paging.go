// Package paging derives page navigation windows from a result set's total
// count and the current skip/limit. It is pure arithmetic: it never talks
// to the store and applies no bounds-checking of its own. Windows with a
// negative skip mean "no such page" and are suppressed by the caller, not
// here. Limit must be positive; it is server-fixed, so that is an invariant
// of the caller rather than a runtime check.
package paging

import "math"

// Window points at one page: its 1-based page number and skip offset.
type Window struct {
	Page int64
	Skip int64
}

// Windows is the full navigation state around the current position.
type Windows struct {
	// Here is the 1-based number of the current page
	Here int64

	Prev  Window
	Prev2 Window
	Next  Window
	Next2 Window

	// LastSkip is the skip offset of the final non-empty page
	LastSkip int64

	HasMultiplePages bool
}

// Calculate computes the navigation windows for the given position.
func Calculate(skip int64, limit int64, totalCount int64) Windows {
	return Windows{
		Here:             pageAt(skip, limit),
		Prev:             windowAt(skip-limit, limit),
		Prev2:            windowAt(skip-2*limit, limit),
		Next:             windowAt(skip+limit, limit),
		Next2:            windowAt(skip+2*limit, limit),
		LastSkip:         lastSkip(limit, totalCount),
		HasMultiplePages: totalCount > limit,
	}
}

func pageAt(skip int64, limit int64) int64 {
	return int64(math.Round(float64(skip)/float64(limit))) + 1
}

func windowAt(skip int64, limit int64) Window {
	return Window{Page: pageAt(skip, limit), Skip: skip}
}

func lastSkip(limit int64, totalCount int64) int64 {
	pages := int64(math.Ceil(float64(totalCount) / float64(limit)))
	return (pages - 1) * limit
}
