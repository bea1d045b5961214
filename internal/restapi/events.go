package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/r3labs/sse/v2"

	"metroview.org/internal/utils"
	"metroview.org/internal/viewer"
)

// snapshotPublisher forwards viewer snapshots to the session's event stream.
type snapshotPublisher struct {
	events *sse.Server
	stream string
	logger *slog.Logger
}

func (p *snapshotPublisher) Publish(snap viewer.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		p.logger.Error("failed to encode snapshot", "error", err, "session_id", p.stream)
		return
	}
	if !p.events.TryPublish(p.stream, &sse.Event{Event: []byte("snapshot"), Data: data}) {
		p.logger.Debug("snapshot not delivered", "session_id", p.stream)
	}
}

func (api *RestAPI) onSessionEvicted(session *Session) {
	session.Viewer.Close()
	api.events.RemoveStream(session.ID)
}

// eventsHandler streams snapshots of one session: GET /api/events?stream=<id>
func (api *RestAPI) eventsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("stream")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"stream": {err.Error()}})
		return
	}
	if _, err := api.sessions.Get(id); err != nil || !api.events.StreamExists(id) {
		api.sendNotFound(w, r)
		return
	}
	api.events.ServeHTTP(w, r)
}
