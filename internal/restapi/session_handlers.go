package restapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"metroview.org/internal/graph"
	"metroview.org/internal/logging"
	"metroview.org/internal/models"
	"metroview.org/internal/routing"
	"metroview.org/internal/utils"
	"metroview.org/internal/viewer"
)

type sessionResponse struct {
	ID       string          `json:"id"`
	Snapshot viewer.Snapshot `json:"snapshot"`
}

func (api *RestAPI) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	publisher := &snapshotPublisher{events: api.events, logger: api.Logger}
	v, err := viewer.New(viewer.Config{
		Catalog:      api.Store(),
		Service:      api.RouteService,
		Publisher:    publisher,
		Logger:       api.Logger,
		RouteTimeout: api.Config.RouteTimeout,
		MapHeight:    api.Config.MapHeight,
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	session, err := api.sessions.Create(v)
	if err != nil {
		v.Close()
		api.serverErrorResponse(w, r, err)
		return
	}
	publisher.stream = session.ID
	api.events.CreateStream(session.ID)

	snap, err := v.Snapshot()
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(sessionResponse{ID: session.ID, Snapshot: snap}))
}

func (api *RestAPI) closeSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.sessionID(w, r)
	if !ok {
		return
	}
	if !api.sessions.Remove(id) {
		api.sendNotFound(w, r)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(nil))
}

func (api *RestAPI) sessionStateHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.Snapshot())
}

func (api *RestAPI) sessionElementsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	states, err := session.Viewer.Elements()
	if err != nil {
		api.sessionError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewListResponse(states, false))
}

func (api *RestAPI) clickHandler(w http.ResponseWriter, r *http.Request) {
	session, station, ok := api.sessionAndStation(w, r)
	if !ok {
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.ClickStation(station))
}

func (api *RestAPI) listClickHandler(w http.ResponseWriter, r *http.Request) {
	session, station, ok := api.sessionAndStation(w, r)
	if !ok {
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.ClickListEntry(station))
}

func (api *RestAPI) backgroundClickHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.ClickBackground())
}

func (api *RestAPI) clearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.ClearSelection())
}

// hoverEnterHandler places the tooltip at the optional x and y coordinates.
func (api *RestAPI) hoverEnterHandler(w http.ResponseWriter, r *http.Request) {
	session, station, ok := api.sessionAndStation(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	x, fieldErrors := utils.ParseFloatParam(query, "x", nil)
	y, fieldErrors := utils.ParseFloatParam(query, "y", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.HoverEnter(station, graph.Point{X: x, Y: y}))
}

func (api *RestAPI) hoverExitHandler(w http.ResponseWriter, r *http.Request) {
	session, station, ok := api.sessionAndStation(w, r)
	if !ok {
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.HoverExit(station))
}

func (api *RestAPI) pointerHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	x, y, fieldErrors := utils.ParsePointParams(r.URL.Query(), nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.MovePointer(graph.Point{X: x, Y: y}))
}

func (api *RestAPI) sessionSearchHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	query, err := utils.ValidateAndSanitizeQuery(r.URL.Query().Get("query"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"query": {err.Error()}})
		return
	}
	api.sendSnapshot(w, r, http.StatusOK)(session.Viewer.Search(query))
}

// routeHandler starts a shortest-path request between the selected stations.
// The result arrives on the session's event stream.
func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	snap, err := session.Viewer.RequestRoute(r.Context())
	if errors.Is(err, routing.ErrIncompleteSelection) {
		api.conflictResponse(w, r, err)
		return
	}
	api.sendSnapshot(w, r, http.StatusAccepted)(snap, err)
}

func (api *RestAPI) forestHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	api.sendSnapshot(w, r, http.StatusAccepted)(session.Viewer.RequestForest(r.Context()))
}

// sendSnapshot returns a function taking a viewer call's results, so that
// handlers can pass them straight through.
func (api *RestAPI) sendSnapshot(w http.ResponseWriter, r *http.Request, status int) func(viewer.Snapshot, error) {
	return func(snap viewer.Snapshot, err error) {
		if err != nil {
			api.sessionError(w, r, err)
			return
		}
		api.sendResponseWithStatus(w, r, status, models.NewEntryResponse(snap))
	}
}

// sessionError maps errors from a viewer call. A closed viewer means the
// session was evicted while the request was in flight.
func (api *RestAPI) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, viewer.ErrClosed) {
		api.sendNotFound(w, r)
		return
	}
	api.serverErrorResponse(w, r, err)
}

func (api *RestAPI) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return "", false
	}
	return id, true
}

func (api *RestAPI) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, ok := api.sessionID(w, r)
	if !ok {
		return nil, false
	}
	session, err := api.sessions.Get(id)
	if err != nil {
		logging.FromContext(r.Context()).Debug("unknown session", slog.String("session_id", id))
		api.sendNotFound(w, r)
		return nil, false
	}
	return session, true
}

func (api *RestAPI) sessionAndStation(w http.ResponseWriter, r *http.Request) (*Session, models.StationID, bool) {
	station := httprouter.ParamsFromContext(r.Context()).ByName("station")
	if err := utils.ValidateID(station); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"station": {err.Error()}})
		return nil, "", false
	}
	session, ok := api.session(w, r)
	if !ok {
		return nil, "", false
	}
	return session, models.StationID(station), true
}
