package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/r3labs/sse/v2"

	"metroview.org/internal/app"
)

type RestAPI struct {
	*app.Application
	sessions    *SessionRegistry
	events      *sse.Server
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI with its session registry, event server
// and rate limiter.
func NewRestAPI(app *app.Application) *RestAPI {
	events := sse.New()
	events.AutoReplay = false
	events.AutoStream = false

	api := &RestAPI{
		Application: app,
		events:      events,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, app.Config.RateBurst, time.Second),
	}
	api.sessions = NewSessionRegistry(app.Config.MaxSessions, app.Config.SessionTTL, api.onSessionEvicted, app.Logger)
	return api
}

// Handler returns the router wrapped in the middleware chain. Extra route
// sets, such as the debug pages, share the same chain.
func (api *RestAPI) Handler(extra ...func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	for _, setRoutes := range extra {
		setRoutes(router)
	}

	var handler http.Handler = router
	handler = api.rateLimiter.Handler(handler)
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}

// Sessions exposes the live sessions, for the debug pages.
func (api *RestAPI) Sessions() *SessionRegistry {
	return api.sessions
}

// Shutdown closes every session and stops background work.
func (api *RestAPI) Shutdown() {
	api.sessions.Close()
	api.rateLimiter.Stop()
	api.events.Close()
}
