package config

import (
	"github.com/mongohouse/mongo-data-apis/log"
)

type Config interface {
	SingleDatabase() string
	ExcludedDatabases() []string
	PageSize() int64
	FieldRedactionBytes() int
	DocumentRedactionBytes() int
	SupportedOperations() Operations
	Naming() NamingConvention
	Logger() log.Logger
}
