package webui

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metroview.org/internal/app"
	"metroview.org/internal/appconf"
	"metroview.org/internal/models"
	"metroview.org/internal/network"
	"metroview.org/internal/restapi"
	"metroview.org/internal/viewer"
)

type noRoutes struct{}

func (noRoutes) ShortestPath(context.Context, models.StationID, models.StationID) (*models.RouteData, error) {
	return &models.RouteData{}, nil
}

func (noRoutes) SpanningForest(context.Context) (*models.RouteData, error) {
	return &models.RouteData{}, nil
}

func createTestWebUI(t *testing.T) *WebUI {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	manager, err := network.InitManager(context.Background(), network.Sources{
		NetworkURL: filepath.Join("../../testdata", "network.json"),
	}, nil, logger)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	sessions := restapi.NewSessionRegistry(10, 0, func(s *restapi.Session) { s.Viewer.Close() }, logger)
	t.Cleanup(sessions.Close)

	v, err := viewer.New(viewer.Config{Catalog: manager.Store(), Service: noRoutes{}, Logger: logger})
	require.NoError(t, err)
	_, err = sessions.Create(v)
	require.NoError(t, err)

	return &WebUI{
		Application: &app.Application{
			Config:         appconf.Default(),
			Logger:         logger,
			NetworkManager: manager,
		},
		Sessions: sessions,
	}
}

func get(t *testing.T, webUI *WebUI, target string) (int, string) {
	t.Helper()
	router := httprouter.New()
	webUI.SetWebUIRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestDebugIndex(t *testing.T) {
	webUI := createTestWebUI(t)

	tests := []struct {
		dataType string
		title    string
		contains string
	}{
		{"", "Choose a data type", "Please use one of the following"},
		{"summary", "Network - Summary", "Stations:"},
		{"stations", "Network - Stations", "Barbès Rochechouart"},
		{"elements", "Network - Graph Elements", "edge-1-2"},
		{"dropped", "Network - Dropped Edges", "99"},
		{"sessions", "Sessions", "CreatedAt"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			code, body := get(t, webUI, "/debug/?dataType="+tt.dataType)
			assert.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, "<title>"+tt.title+"</title>")
			assert.Contains(t, body, `<a href="?dataType=sessions">`)
			assert.Contains(t, body, tt.contains)
		})
	}
}

func TestDebugSessionsListsLiveSessions(t *testing.T) {
	webUI := createTestWebUI(t)
	sessions := webUI.Sessions.List()
	require.Len(t, sessions, 1)

	_, body := get(t, webUI, "/debug/?dataType=sessions")
	assert.Contains(t, body, sessions[0].ID)
}
