package rest

import (
	"github.com/mongohouse/mongo-data-apis/config"
	"github.com/mongohouse/mongo-data-apis/db"
	restEndpointV1 "github.com/mongohouse/mongo-data-apis/rest/endpoint/v1"
	"github.com/mongohouse/mongo-data-apis/types"
)

type RouteGenerator struct {
	dbClient *db.Db
	config   config.Config
}

func NewRouteGenerator(
	dbClient *db.Db,
	cfg config.Config,
) *RouteGenerator {
	return &RouteGenerator{
		dbClient: dbClient,
		config:   cfg,
	}
}

func (g *RouteGenerator) Routes(prefix string) []types.Route {
	return restEndpointV1.Routes(prefix, g.config, g.dbClient)
}
