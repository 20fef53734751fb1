package models

// BrowseQuery carries the untrusted browse parameters of a collection view
// request. Limit is deliberately absent: the page size is server-fixed.
type BrowseQuery struct {
	// Key/Value/Type describe a single-field equality filter
	Key   string `mapstructure:"key"`
	Value string `mapstructure:"value"`
	Type  string `mapstructure:"type"`

	// Query is a textual filter expression, used when Key/Value are absent
	Query string `mapstructure:"query"`

	// Projection is a textual projection expression
	Projection string `mapstructure:"projection"`

	Skip int64 `mapstructure:"skip"`

	// RunAggregate opts in to treating an array-shaped Query as a
	// caller-authored pipeline
	RunAggregate bool `mapstructure:"runAggregate"`
}
