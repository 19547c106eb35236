package api

import (
	"net/http"
	"os"

	etlHandlers "github.com/brandon841/posthog-etl/etl/handlers"
	"github.com/brandon841/posthog-etl/framework/connection"
	"github.com/brandon841/posthog-etl/framework/mid"
	"github.com/brandon841/posthog-etl/framework/web"
	"github.com/brandon841/posthog-etl/logger"
)

// API constructs an api with the needed functionality.
type API struct {
	shutdown chan os.Signal
	log      *logger.Logging
	conn     *connection.Connection
}

func NewAPI(shutdown chan os.Signal, logging *logger.Logging, conn *connection.Connection) *API {
	return &API{
		shutdown,
		logging,
		conn,
	}
}

// Build builds the api endpoints with the needed middlewares, and returns http.Handler interface.
func (a *API) Build() http.Handler {
	loggerProvider := logger.FromContext

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(a.shutdown, a.conn, mid.Logger(), mid.Errors(), mid.Panics(), mid.Sentry())

	etl := etlHandlers.NewEtl(loggerProvider, a.conn)

	app.Post("/run", etl.Run)
	app.Get("/health", etl.Health)

	return app
}
