package models

// PageWindow points at one reachable page of a result set.
type PageWindow struct {
	// Page is 1-based
	Page int64 `json:"page"`
	Skip int64 `json:"skip"`
}

// Pagination is the navigation state attached to a browse response. Windows
// that would fall off either end of the result set are nil.
type Pagination struct {
	Here             int64       `json:"here"`
	Prev             *PageWindow `json:"prev,omitempty"`
	Prev2            *PageWindow `json:"prev2,omitempty"`
	Next             *PageWindow `json:"next,omitempty"`
	Next2            *PageWindow `json:"next2,omitempty"`
	LastSkip         int64       `json:"lastSkip"`
	HasMultiplePages bool        `json:"hasMultiplePages"`
}

// DocumentsResult is the render context for a collection browse: the page
// of documents plus everything a caller needs to re-display the applied
// query and navigate.
type DocumentsResult struct {
	Documents []map[string]interface{} `json:"documents"`

	// Columns is the union of keys across the page's documents
	Columns []string `json:"columns"`

	Count      int64       `json:"count"`
	Skip       int64       `json:"skip"`
	Limit      int64       `json:"limit"`
	Pagination *Pagination `json:"pagination"`

	// Echo of the applied query parameters, for re-display
	Key        string      `json:"key,omitempty"`
	Value      string      `json:"value,omitempty"`
	Type       string      `json:"type,omitempty"`
	Query      string      `json:"query,omitempty"`
	Projection string      `json:"projection,omitempty"`
	Sort       []SortEntry `json:"sort,omitempty"`
}

// SortEntry echoes one sort clause; slice order is the tie-break order.
type SortEntry struct {
	Field     string `json:"field"`
	Direction int    `json:"direction"`
}
