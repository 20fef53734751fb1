package endpoint

import (
	"go.uber.org/zap"

	"github.com/mongohouse/mongo-data-apis/config"
	"github.com/mongohouse/mongo-data-apis/db"
	"github.com/mongohouse/mongo-data-apis/log"
	"github.com/mongohouse/mongo-data-apis/rest"
	"github.com/mongohouse/mongo-data-apis/rest/redact"
	"github.com/mongohouse/mongo-data-apis/types"
)

const DefaultPageSize = 10

type DataEndpointConfig struct {
	dbURI               string
	singleDatabase      string
	dbExcluded          []string
	pageSize            int64
	fieldRedactionBytes int
	docRedactionBytes   int
	naming              config.NamingConvention
	supportedOps        config.Operations
	logger              log.Logger
}

func (cfg DataEndpointConfig) SingleDatabase() string {
	return cfg.singleDatabase
}

func (cfg DataEndpointConfig) ExcludedDatabases() []string {
	return cfg.dbExcluded
}

func (cfg DataEndpointConfig) PageSize() int64 {
	return cfg.pageSize
}

func (cfg DataEndpointConfig) FieldRedactionBytes() int {
	return cfg.fieldRedactionBytes
}

func (cfg DataEndpointConfig) DocumentRedactionBytes() int {
	return cfg.docRedactionBytes
}

func (cfg DataEndpointConfig) Naming() config.NamingConvention {
	return cfg.naming
}

func (cfg DataEndpointConfig) SupportedOperations() config.Operations {
	return cfg.supportedOps
}

func (cfg DataEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *DataEndpointConfig) WithSingleDatabase(singleDatabase string) *DataEndpointConfig {
	cfg.singleDatabase = singleDatabase
	return cfg
}

func (cfg *DataEndpointConfig) WithExcludedDatabases(dbExcluded []string) *DataEndpointConfig {
	cfg.dbExcluded = dbExcluded
	return cfg
}

func (cfg *DataEndpointConfig) WithPageSize(pageSize int64) *DataEndpointConfig {
	if pageSize > 0 {
		cfg.pageSize = pageSize
	}
	return cfg
}

func (cfg *DataEndpointConfig) WithRedactionBytes(fieldBytes int, docBytes int) *DataEndpointConfig {
	if fieldBytes > 0 {
		cfg.fieldRedactionBytes = fieldBytes
	}
	if docBytes > 0 {
		cfg.docRedactionBytes = docBytes
	}
	return cfg
}

func (cfg *DataEndpointConfig) WithNaming(naming config.NamingConvention) *DataEndpointConfig {
	cfg.naming = naming
	return cfg
}

func (cfg *DataEndpointConfig) WithSupportedOperations(supportedOps config.Operations) *DataEndpointConfig {
	cfg.supportedOps = supportedOps
	return cfg
}

func (cfg DataEndpointConfig) NewEndpoint() (*DataEndpoint, error) {
	dbClient, err := db.NewDb(cfg.dbURI)
	if err != nil {
		return nil, err
	}
	return cfg.NewEndpointWithDb(dbClient), nil
}

func (cfg DataEndpointConfig) NewEndpointWithDb(dbClient *db.Db) *DataEndpoint {
	return &DataEndpoint{
		restRouteGen: rest.NewRouteGenerator(dbClient, cfg),
		dbClient:     dbClient,
	}
}

type DataEndpoint struct {
	restRouteGen *rest.RouteGenerator
	dbClient     *db.Db
}

func NewEndpointConfig(uri string) (*DataEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), uri), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, uri string) *DataEndpointConfig {
	return &DataEndpointConfig{
		dbURI:               uri,
		pageSize:            DefaultPageSize,
		fieldRedactionBytes: redact.DefaultFieldBytes,
		docRedactionBytes:   redact.DefaultDocumentBytes,
		naming:              config.NewIdentityNaming(),
		logger:              logger,
	}
}

func (e *DataEndpoint) RoutesREST(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix)
}

func (e *DataEndpoint) Close() error {
	return e.dbClient.Close()
}
