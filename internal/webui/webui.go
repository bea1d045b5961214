// Package webui serves debug pages that dump the loaded network and the
// live sessions.
package webui

import (
	"embed"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/davecgh/go-spew/spew"

	"metroview.org/internal/app"
	"metroview.org/internal/restapi"
	"metroview.org/internal/viewer"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

// dataTypes lists the dumps offered on the index, in display order.
var dataTypes = []string{"summary", "stations", "positions", "elements", "dropped", "sessions"}

type WebUI struct {
	*app.Application
	Sessions *restapi.SessionRegistry
}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

type sessionDump struct {
	ID        string
	CreatedAt time.Time
	Snapshot  viewer.Snapshot
	Err       error
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	store := webUI.Store()

	switch dataType {
	case "summary":
		data = store.Summary()
		title = "Network - Summary"
	case "stations":
		data = store.Stations()
		title = "Network - Stations"
	case "positions":
		data = store.Positions()
		title = "Network - Positions"
	case "elements":
		data = store.Elements()
		title = "Network - Graph Elements"
	case "dropped":
		data = store.Elements().Dropped
		title = "Network - Dropped Edges"
	case "sessions":
		data = webUI.sessionDumps()
		title = "Sessions"
	default:
		data = map[string]interface{}{
			"error":   "Please use one of the following: summary, stations, positions, elements, dropped, sessions.",
			"summary": store.Summary(),
		}
		title = "Choose a data type"
	}

	webUI.writeDebugData(w, title, data)
}

func (webUI *WebUI) sessionDumps() []sessionDump {
	if webUI.Sessions == nil {
		return nil
	}
	sessions := webUI.Sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	dumps := make([]sessionDump, 0, len(sessions))
	for _, s := range sessions {
		snap, err := s.Viewer.Snapshot()
		dumps = append(dumps, sessionDump{ID: s.ID, CreatedAt: s.CreatedAt, Snapshot: snap, Err: err})
	}
	return dumps
}
