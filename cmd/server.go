package cmd

import (
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mongohouse/mongo-data-apis/config"
	"github.com/mongohouse/mongo-data-apis/endpoint"
	"github.com/mongohouse/mongo-data-apis/log"
	"github.com/mongohouse/mongo-data-apis/rest/redact"
)

const defaultRESTPath = ""

// Environment variables prefixed with "MONGO_API_" can override settings e.g. "MONGO_API_URI"
const envVarPrefix = "mongo_api"

var cfgFile string
var logger log.Logger

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " --uri [URI] [OPTIONS]",
	Short: "REST endpoints for browsing, exporting and mutating document-store collections",
	Args: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("uri") == "" {
			return errors.New("uri is required")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		dataEndpoint := createEndpoint()
		defer dataEndpoint.Close()

		router := httprouter.New()
		for _, route := range dataEndpoint.RoutesREST(defaultRESTPath) {
			router.Handler(route.Method, route.Pattern, route.Handler)
		}

		handler := http.Handler(router)

		if allowedOrigin := viper.GetString("access-control-allow-origin"); allowedOrigin != "" {
			handler = corsHandler(handler, allowedOrigin)
		}

		if viper.GetBool("request-logging") {
			handler = log.NewLoggingHandler(handler, logger)
		}

		listenAndServe(handler, viper.GetInt("port"))
	},
}

// Execute starts the REST endpoint
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.StringP("uri", "u", "", "connection URI for the document store")
	flags.Int("port", 8080, "port to bind the endpoint to")

	flags.String("database", "", "only allow access to a single database")
	flags.StringSlice("excluded-databases", []string{"admin", "config", "local"},
		"databases to exclude from the endpoint")
	flags.Int64("page-size", endpoint.DefaultPageSize, "number of documents per page, fixed server-side")
	flags.Int("field-redaction-bytes", redact.DefaultFieldBytes,
		"serialized size above which a single field is redacted in browse responses")
	flags.Int("doc-redaction-bytes", redact.DefaultDocumentBytes,
		"serialized size above which a whole document is redacted in browse responses")
	flags.StringSlice("operations", []string{
		"DocumentInsert",
		"DocumentDelete",
		"CollectionDrop",
		"CollectionRename",
	}, "list of supported mutating operations. options: DocumentInsert,DocumentDelete,CollectionDrop,CollectionRename")
	flags.Bool("read-only", false, "disable every mutating operation")
	flags.Bool("no-delete", false, "disable document delete and collection drop")
	flags.String("export-naming", "identity",
		"naming convention for export column headers. options: identity,snake,lowerCamel")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.DataEndpoint {
	cfg := endpoint.NewEndpointConfigWithLogger(logger, viper.GetString("uri"))

	naming, err := config.NamingFromString(viper.GetString("export-naming"))
	if err != nil {
		logger.Fatal("invalid export naming convention",
			"naming", viper.GetString("export-naming"),
			"error", err)
	}

	supportedOps := getStringSlice("operations")
	ops, err := config.Ops(supportedOps...)
	if err != nil {
		logger.Fatal("invalid supported operation",
			"operations", supportedOps,
			"error", err)
	}
	if viper.GetBool("read-only") {
		ops.Clear(config.MutatingOperations)
	}
	if viper.GetBool("no-delete") {
		ops.Clear(config.DeletingOperations)
	}

	cfg.
		WithSingleDatabase(viper.GetString("database")).
		WithExcludedDatabases(getStringSlice("excluded-databases")).
		WithPageSize(viper.GetInt64("page-size")).
		WithRedactionBytes(viper.GetInt("field-redaction-bytes"), viper.GetInt("doc-redaction-bytes")).
		WithNaming(naming).
		WithSupportedOperations(ops)

	dataEndpoint, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable to create new endpoint",
			"error", err)
	}

	return dataEndpoint
}

// getStringSlice resolves a slice setting whether it came from a flag, the
// config file or a comma-separated environment variable.
func getStringSlice(key string) []string {
	values := viper.GetStringSlice(key)
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	return values
}

func corsHandler(inner http.Handler, allowedOrigin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		inner.ServeHTTP(w, r)
	})
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func listenAndServe(handler http.Handler, port int) {
	logger.Info("server listening",
		"port", port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}
