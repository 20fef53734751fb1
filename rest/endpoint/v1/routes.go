package endpoint

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/mongohouse/mongo-data-apis/config"
	"github.com/mongohouse/mongo-data-apis/db"
	"github.com/mongohouse/mongo-data-apis/log"
	"github.com/mongohouse/mongo-data-apis/types"
)

type routeList struct {
	dbClient *db.Db
	cfg      config.Config
	logger   log.Logger
	params   func(*http.Request, string) string
}

// Routes returns a slice of all the endpoint routes
func Routes(prefix string, cfg config.Config, dbClient *db.Db) []types.Route {
	rl := &routeList{
		dbClient: dbClient,
		cfg:      cfg,
		logger:   cfg.Logger(),
		params:   routerParam,
	}

	routes := []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/health",
			Handler: http.HandlerFunc(rl.Health),
		},
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/databases",
			Handler: http.HandlerFunc(rl.GetDatabases),
		},
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/databases/:databaseName/collections",
			Handler: http.HandlerFunc(rl.GetCollections),
		},
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/databases/:databaseName/collections/:collectionName/documents",
			Handler: http.HandlerFunc(rl.GetDocuments),
		},
		{
			Method:  http.MethodPost,
			Pattern: prefix + "/v1/databases/:databaseName/collections/:collectionName/documents",
			Handler: http.HandlerFunc(rl.AddDocument),
		},
		{
			Method:  http.MethodDelete,
			Pattern: prefix + "/v1/databases/:databaseName/collections/:collectionName/documents/:documentId",
			Handler: http.HandlerFunc(rl.DeleteDocument),
		},
		{
			Method:  http.MethodDelete,
			Pattern: prefix + "/v1/databases/:databaseName/collections/:collectionName",
			Handler: http.HandlerFunc(rl.DropCollection),
		},
		{
			Method:  http.MethodPost,
			Pattern: prefix + "/v1/databases/:databaseName/collections/:collectionName/rename",
			Handler: http.HandlerFunc(rl.RenameCollection),
		},
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/databases/:databaseName/collections/:collectionName/indexes",
			Handler: http.HandlerFunc(rl.GetIndexes),
		},
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/databases/:databaseName/collections/:collectionName/export",
			Handler: http.HandlerFunc(rl.ExportDocuments),
		},
	}
	return routes
}

func routerParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
