package routing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metroview.org/internal/models"
)

func TestClientShortestPathQueryForm(t *testing.T) {
	var gotPath, gotS1, gotS2, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotS1 = r.URL.Query().Get("s1")
		gotS2 = r.URL.Query().Get("s2")
		_, _ = io.WriteString(w, `{"data":{"itineraire":["Take line 12"],"stations":[[1,2]],"temps":60}}`)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(server.URL), server.Client(), nil)
	data, err := client.ShortestPath(context.Background(), "1", "2")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/dijkstra", gotPath)
	assert.Equal(t, "1", gotS1)
	assert.Equal(t, "2", gotS2)

	require.NotNil(t, data.Time)
	assert.Equal(t, 60.0, *data.Time)
	assert.Equal(t, []string{"Take line 12"}, data.Itinerary)
	assert.Equal(t, []models.EdgePair{{Source: "1", Target: "2"}}, data.Pairs)
}

func TestClientShortestPathBodyForm(t *testing.T) {
	var body map[string]string
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"data":{"stations":[]}}`)
	}))
	defer server.Close()

	cfg := DefaultConfig(server.URL + "/")
	cfg.Form = BodyForm
	client := NewClient(cfg, server.Client(), nil)

	data, err := client.ShortestPath(context.Background(), "5", "6")
	require.NoError(t, err)
	assert.Empty(t, data.Pairs)
	assert.Nil(t, data.Time)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]string{"s1": "5", "s2": "6"}, body)
}

func TestClientSpanningForest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mst", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"stations":[[1,2],["2","3"]]}}`)
	}))
	defer server.Close()

	cfg := DefaultConfig(server.URL)
	cfg.Forest = "mst"
	client := NewClient(cfg, server.Client(), nil)

	data, err := client.SpanningForest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.EdgePair{{Source: "1", Target: "2"}, {Source: "2", Target: "3"}}, data.Pairs)
	assert.Nil(t, data.Itinerary)
}

func TestClientFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: ErrRouteStatus},
		{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: ErrRouteStatus},
		{name: "missing envelope", status: http.StatusOK, body: `{"stations":[[1,2]]}`, wantErr: ErrMissingEnvelope},
		{name: "null envelope", status: http.StatusOK, body: `{"data":null}`, wantErr: ErrMissingEnvelope},
		{name: "malformed json", status: http.StatusOK, body: `{"data":`},
		{name: "bad pair", status: http.StatusOK, body: `{"data":{"stations":[[1]]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(DefaultConfig(server.URL), server.Client(), nil)
			data, err := client.ShortestPath(context.Background(), "1", "2")
			require.Error(t, err)
			assert.Nil(t, data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(DefaultConfig(url), nil, nil)
	_, err := client.SpanningForest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spanning_forest request failed")
}

func TestParseRequestForm(t *testing.T) {
	form, err := ParseRequestForm("")
	require.NoError(t, err)
	assert.Equal(t, QueryForm, form)

	form, err = ParseRequestForm(" BODY ")
	require.NoError(t, err)
	assert.Equal(t, BodyForm, form)

	_, err = ParseRequestForm("xml")
	assert.Error(t, err)
}
