package restapi

import (
	"net/http"

	"metroview.org/internal/mapoverlay"
	"metroview.org/internal/models"
	"metroview.org/internal/search"
	"metroview.org/internal/utils"
)

// networkHandler returns the graph built from the loaded network.
func (api *RestAPI) networkHandler(w http.ResponseWriter, r *http.Request) {
	store := api.Store()
	api.sendResponse(w, r, models.NewEntryResponse(map[string]interface{}{
		"elements": store.Elements(),
		"summary":  store.Summary(),
	}))
}

func (api *RestAPI) searchHandler(w http.ResponseWriter, r *http.Request) {
	query, err := utils.ValidateAndSanitizeQuery(r.URL.Query().Get("query"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"query": {err.Error()}})
		return
	}

	entries := search.Entries(search.Filter(query, api.Store().Stations()))
	api.sendResponse(w, r, models.NewListResponse(entries, false))
}

func (api *RestAPI) markersHandler(w http.ResponseWriter, r *http.Request) {
	markers := mapoverlay.Markers(api.Store().Positions(), api.Config.MapHeight)
	api.sendResponse(w, r, models.NewListResponse(markers, false))
}
