package endpoint

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mongohouse/mongo-data-apis/config"
	"github.com/mongohouse/mongo-data-apis/db"
	"github.com/mongohouse/mongo-data-apis/log"
)

func testConfig() *DataEndpointConfig {
	return NewEndpointConfigWithLogger(log.NewZapLogger(zap.NewExample()), "mongodb://localhost:27017")
}

func TestEndpointConfigDefaults(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, int64(DefaultPageSize), cfg.PageSize())
	assert.Equal(t, "", cfg.SingleDatabase())
	assert.Empty(t, cfg.ExcludedDatabases())
	assert.Equal(t, config.Operations(0), cfg.SupportedOperations())
	assert.NotNil(t, cfg.Naming())
	assert.NotNil(t, cfg.Logger())
	assert.Greater(t, cfg.FieldRedactionBytes(), 0)
	assert.Greater(t, cfg.DocumentRedactionBytes(), 0)
}

func TestEndpointConfigBuilders(t *testing.T) {
	ops, err := config.Ops("DocumentInsert", "DocumentDelete")
	require.NoError(t, err)

	naming, err := config.NamingFromString("snake")
	require.NoError(t, err)

	cfg := testConfig().
		WithSingleDatabase("shop").
		WithExcludedDatabases([]string{"admin", "local"}).
		WithPageSize(25).
		WithRedactionBytes(1024, 8192).
		WithNaming(naming).
		WithSupportedOperations(ops)

	assert.Equal(t, "shop", cfg.SingleDatabase())
	assert.Equal(t, []string{"admin", "local"}, cfg.ExcludedDatabases())
	assert.Equal(t, int64(25), cfg.PageSize())
	assert.Equal(t, 1024, cfg.FieldRedactionBytes())
	assert.Equal(t, 8192, cfg.DocumentRedactionBytes())
	assert.True(t, cfg.SupportedOperations().IsSupported(config.DocumentInsert))
	assert.False(t, cfg.SupportedOperations().IsSupported(config.CollectionDrop))
}

func TestEndpointConfigIgnoresInvalidSizes(t *testing.T) {
	cfg := testConfig().
		WithPageSize(0).
		WithRedactionBytes(-1, 0)

	assert.Equal(t, int64(DefaultPageSize), cfg.PageSize())
	assert.Greater(t, cfg.FieldRedactionBytes(), 0)
	assert.Greater(t, cfg.DocumentRedactionBytes(), 0)
}

func TestEndpointRoutes(t *testing.T) {
	dataEndpoint := testConfig().NewEndpointWithDb(db.NewDbWithSession(db.NewSessionMock()))
	defer dataEndpoint.Close()

	routes := dataEndpoint.RoutesREST("/api")
	require.NotEmpty(t, routes)

	methods := map[string]int{}
	for _, route := range routes {
		assert.True(t, strings.HasPrefix(route.Pattern, "/api/v1/"), route.Pattern)
		assert.NotNil(t, route.Handler, route.Pattern)
		methods[route.Method]++
	}
	assert.NotZero(t, methods[http.MethodGet])
	assert.NotZero(t, methods[http.MethodPost])
	assert.NotZero(t, methods[http.MethodDelete])
}
