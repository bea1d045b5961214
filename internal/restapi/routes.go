package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.APIKeysEnabled() && api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/network.json", validateAPIKey(api, api.networkHandler))
	router.Handler(http.MethodGet, "/api/stations/search.json", validateAPIKey(api, api.searchHandler))
	router.Handler(http.MethodGet, "/api/map/markers.json", validateAPIKey(api, api.markersHandler))

	router.Handler(http.MethodPost, "/api/sessions", validateAPIKey(api, api.createSessionHandler))
	router.Handler(http.MethodDelete, "/api/sessions/:id", validateAPIKey(api, api.closeSessionHandler))
	router.Handler(http.MethodGet, "/api/sessions/:id/state.json", validateAPIKey(api, api.sessionStateHandler))
	router.Handler(http.MethodGet, "/api/sessions/:id/elements.json", validateAPIKey(api, api.sessionElementsHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/click/:station", validateAPIKey(api, api.clickHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/list-click/:station", validateAPIKey(api, api.listClickHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/background-click", validateAPIKey(api, api.backgroundClickHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/clear", validateAPIKey(api, api.clearSelectionHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/hover/:station", validateAPIKey(api, api.hoverEnterHandler))
	router.Handler(http.MethodDelete, "/api/sessions/:id/hover/:station", validateAPIKey(api, api.hoverExitHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/pointer", validateAPIKey(api, api.pointerHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/search", validateAPIKey(api, api.sessionSearchHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/route", validateAPIKey(api, api.routeHandler))
	router.Handler(http.MethodPost, "/api/sessions/:id/forest", validateAPIKey(api, api.forestHandler))

	router.Handler(http.MethodGet, "/api/events", validateAPIKey(api, api.eventsHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}
