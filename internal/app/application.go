package app

import (
	"log/slog"

	"metroview.org/internal/appconf"
	"metroview.org/internal/network"
	"metroview.org/internal/routing"
)

// Application holds the dependencies shared by the HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config         appconf.Config
	Logger         *slog.Logger
	NetworkManager *network.Manager
	RouteService   routing.Service
}

// Store returns the network currently served, or an empty one before the
// first successful load.
func (app *Application) Store() *network.Store {
	if app.NetworkManager == nil {
		return network.Empty()
	}
	return app.NetworkManager.Store()
}
