package viewer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metroview.org/internal/graph"
	"metroview.org/internal/models"
	"metroview.org/internal/routing"
	"metroview.org/internal/search"
	"metroview.org/internal/selection"
	"metroview.org/internal/surface"
)

type testCatalog struct {
	stations []models.Station
	elements *graph.Elements
}

func newTestCatalog(network *models.Network) *testCatalog {
	return &testCatalog{stations: network.Stations, elements: graph.Build(network)}
}

func (c *testCatalog) Station(id models.StationID) (models.Station, bool) {
	for _, s := range c.stations {
		if s.ID == id {
			return s, true
		}
	}
	return models.Station{}, false
}

func (c *testCatalog) Stations() []models.Station { return c.stations }
func (c *testCatalog) Elements() *graph.Elements  { return c.elements }

func ptr(f float64) *float64 { return &f }

func scenarioNetwork() *models.Network {
	return &models.Network{
		Stations: []models.Station{
			{ID: "1", Name: "A", Line: "1", PosX: ptr(0), PosY: ptr(0)},
			{ID: "2", Name: "B", Line: "1", PosX: ptr(100), PosY: ptr(50)},
			{ID: "3", Name: "C", Line: "2", PosX: ptr(200), PosY: ptr(50)},
		},
		Edges: []models.Edge{
			{Start: "1", End: "2", Time: 60},
			{Start: "2", End: "3", Time: 90},
		},
	}
}

// routeServer answers every route request with the next body in bodies and
// repeats the last one. A body of "" answers 500.
type routeServer struct {
	*httptest.Server
	calls atomic.Int32
}

func newRouteServer(t *testing.T, bodies ...string) *routeServer {
	t.Helper()
	rs := &routeServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(rs.calls.Add(1)) - 1
		if i >= len(bodies) {
			i = len(bodies) - 1
		}
		if bodies[i] == "" {
			http.Error(w, "route service down", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, bodies[i])
	}))
	t.Cleanup(rs.Close)
	return rs
}

func newViewer(t *testing.T, rs *routeServer, publisher Publisher) *Viewer {
	t.Helper()
	client := routing.NewClient(routing.DefaultConfig(rs.URL), rs.Client(), nil)
	v, err := New(Config{
		Catalog:   newTestCatalog(scenarioNetwork()),
		Service:   client,
		Publisher: publisher,
	})
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v
}

const scenarioRoute = `{"data":{"itineraire":["A→B"],"stations":[[1,2]],"temps":60}}`

func selectPair(t *testing.T, v *Viewer, from, to models.StationID) Snapshot {
	t.Helper()
	_, err := v.ClickStation(from)
	require.NoError(t, err)
	snap, err := v.ClickStation(to)
	require.NoError(t, err)
	return snap
}

func TestScenarioShortestPath(t *testing.T) {
	rs := newRouteServer(t, scenarioRoute)
	v := newViewer(t, rs, nil)

	snap := selectPair(t, v, "1", "2")
	assert.Equal(t, selection.State{Phase: selection.TwoSelected, Departure: "1", Destination: "2"}, snap.Selection)
	assert.Equal(t, "A ( Line 1 )", snap.Panel.Departure)
	assert.Equal(t, "B ( Line 1 )", snap.Panel.Destination)

	_, err := v.RequestRoute(context.Background())
	require.NoError(t, err)
	v.Wait()

	snap, err = v.Snapshot()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"station-1", "station-2", "edge-1-2"}, snap.Highlighted)
	assert.Len(t, snap.Highlight.Nodes, 2)
	assert.Len(t, snap.Highlight.Edges, 1)
	assert.True(t, snap.Highlight.Fitted)
	assert.Equal(t, 1, snap.Viewport.Fits)
	assert.Equal(t, "1 minute(s)", snap.Panel.TravelTime)
	assert.Equal(t, []string{"A→B"}, snap.Panel.Itinerary)
	assert.False(t, snap.Panel.NoRoute)
	assert.Len(t, snap.Polylines, 1)
	assert.Equal(t, uint64(1), snap.Pending)
}

func TestRouteFailureLeavesStylingUnchanged(t *testing.T) {
	rs := newRouteServer(t, scenarioRoute, "")
	v := newViewer(t, rs, nil)
	selectPair(t, v, "1", "2")

	_, err := v.RequestRoute(context.Background())
	require.NoError(t, err)
	v.Wait()
	before, err := v.Snapshot()
	require.NoError(t, err)
	beforeElements, err := v.Elements()
	require.NoError(t, err)

	_, err = v.RequestRoute(context.Background())
	require.NoError(t, err)
	v.Wait()
	after, err := v.Snapshot()
	require.NoError(t, err)
	afterElements, err := v.Elements()
	require.NoError(t, err)

	assert.Equal(t, int32(2), rs.calls.Load())
	assert.Equal(t, beforeElements, afterElements)
	assert.Equal(t, before.Highlighted, after.Highlighted)
	assert.Equal(t, before.Panel, after.Panel)
	assert.Equal(t, before.Viewport, after.Viewport)
}

func TestRequestRouteNeedsTwoStations(t *testing.T) {
	rs := newRouteServer(t, scenarioRoute)
	v := newViewer(t, rs, nil)

	_, err := v.RequestRoute(context.Background())
	assert.ErrorIs(t, err, routing.ErrIncompleteSelection)

	_, err = v.ClickStation("1")
	require.NoError(t, err)
	_, err = v.RequestRoute(context.Background())
	assert.ErrorIs(t, err, routing.ErrIncompleteSelection)

	v.Wait()
	assert.Zero(t, rs.calls.Load())
}

func TestSpanningForest(t *testing.T) {
	rs := newRouteServer(t, `{"data":{"stations":[[1,2],[3,2]]}}`)
	v := newViewer(t, rs, nil)

	_, err := v.RequestForest(context.Background())
	require.NoError(t, err)
	v.Wait()

	snap, err := v.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{NoItinerary}, snap.Panel.Itinerary)
	assert.Equal(t, TravelTimeUnavailable, snap.Panel.TravelTime)
	assert.ElementsMatch(t,
		[]string{"station-1", "station-2", "station-3", "edge-1-2", "edge-2-3"},
		snap.Highlighted)
	assert.Equal(t, selection.Empty, snap.Selection.Phase)
}

func TestEmptyRouteRaisesNoRoute(t *testing.T) {
	rs := newRouteServer(t, scenarioRoute, `{"data":{"itineraire":[],"stations":[],"temps":0}}`)
	v := newViewer(t, rs, nil)
	selectPair(t, v, "1", "2")

	for range 2 {
		_, err := v.RequestRoute(context.Background())
		require.NoError(t, err)
		v.Wait()
	}

	snap, err := v.Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.Panel.NoRoute)
	assert.Empty(t, snap.Highlighted)
	assert.Equal(t, 1, snap.Viewport.Fits, "viewport does not move for an empty route")
	assert.Empty(t, snap.Polylines)
}

func TestBackgroundClick(t *testing.T) {
	rs := newRouteServer(t, scenarioRoute)
	v := newViewer(t, rs, nil)
	selectPair(t, v, "1", "2")
	_, err := v.RequestRoute(context.Background())
	require.NoError(t, err)
	v.Wait()

	first, err := v.ClickBackground()
	require.NoError(t, err)
	firstElements, err := v.Elements()
	require.NoError(t, err)

	second, err := v.ClickBackground()
	require.NoError(t, err)
	secondElements, err := v.Elements()
	require.NoError(t, err)

	assert.Empty(t, first.Highlighted)
	assert.Empty(t, first.Polylines)
	assert.Equal(t, selection.TwoSelected, first.Selection.Phase, "selection survives a background click")
	assert.Equal(t, firstElements, secondElements)

	first.Version, second.Version = 0, 0
	assert.Equal(t, first, second)
}

func TestClearSelection(t *testing.T) {
	rs := newRouteServer(t, scenarioRoute)
	v := newViewer(t, rs, nil)
	selectPair(t, v, "1", "2")
	_, err := v.RequestRoute(context.Background())
	require.NoError(t, err)
	v.Wait()

	snap, err := v.ClickStation("3")
	require.NoError(t, err)
	require.Equal(t, "Departure selected: C", snap.Panel.Notice)

	snap, err = v.ClearSelection()
	require.NoError(t, err)

	assert.Equal(t, selection.State{}, snap.Selection)
	assert.Empty(t, snap.Panel.Departure)
	assert.Empty(t, snap.Panel.Destination)
	assert.Empty(t, snap.Panel.Notice)
	assert.NotEmpty(t, snap.Highlighted, "the route highlight is kept")

	elements, err := v.Elements()
	require.NoError(t, err)
	for _, el := range elements {
		if el.Kind != surface.NodeKind.String() {
			continue
		}
		assert.Equal(t, surface.False, el.Attrs[surface.AttrDeparture], el.ID)
		assert.Equal(t, surface.False, el.Attrs[surface.AttrDestination], el.ID)
	}
}

func TestTooltip(t *testing.T) {
	v := newViewer(t, newRouteServer(t, scenarioRoute), nil)

	snap, err := v.HoverEnter("2", graph.Point{X: 5, Y: 7})
	require.NoError(t, err)
	assert.True(t, snap.Tooltip.Visible)
	assert.Equal(t, "B", snap.Tooltip.Name)
	assert.Equal(t, "No", snap.Tooltip.Terminus)
	assert.Equal(t, graph.Point{X: 15, Y: 17}, snap.Tooltip.At)

	snap, err = v.MovePointer(graph.Point{X: 30, Y: 40})
	require.NoError(t, err)
	assert.Equal(t, graph.Point{X: 40, Y: 50}, snap.Tooltip.At)

	snap, err = v.HoverExit("2")
	require.NoError(t, err)
	assert.False(t, snap.Tooltip.Visible)
	assert.Empty(t, snap.Tooltip.Name)
}

func TestSearch(t *testing.T) {
	v := newViewer(t, newRouteServer(t, scenarioRoute), nil)

	snap, err := v.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Panel.Entries, 3, "all stations are listed initially")

	snap, err = v.Search("  line-less  ")
	require.NoError(t, err)
	assert.Equal(t, []search.Entry{{Text: search.NoResults, Placeholder: true}}, snap.Panel.Entries)

	snap, err = v.Search("2")
	require.NoError(t, err)
	require.Len(t, snap.Panel.Entries, 1)
	assert.Equal(t, "C (Line 2)", snap.Panel.Entries[0].Text)

	snap, err = v.ClickListEntry(snap.Panel.Entries[0].StationID)
	require.NoError(t, err)
	assert.Equal(t, models.StationID("3"), snap.Selection.Departure)
}

func TestClickUnknownStation(t *testing.T) {
	v := newViewer(t, newRouteServer(t, scenarioRoute), nil)
	_, err := v.ClickStation("1")
	require.NoError(t, err)

	snap, err := v.ClickStation("404")
	require.NoError(t, err)
	assert.Equal(t, selection.State{Phase: selection.OneSelected, Departure: "1"}, snap.Selection)
}

func TestPublisherSeesEveryChange(t *testing.T) {
	var mu sync.Mutex
	var versions []uint64
	publisher := PublisherFunc(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		versions = append(versions, s.Version)
	})

	v := newViewer(t, newRouteServer(t, scenarioRoute), publisher)
	selectPair(t, v, "1", "2")
	_, err := v.RequestRoute(context.Background())
	require.NoError(t, err)
	v.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2, 3, 4}, versions)
}

func TestClosedViewer(t *testing.T) {
	v := newViewer(t, newRouteServer(t, scenarioRoute), nil)
	v.Close()

	_, err := v.ClickStation("1")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = v.Snapshot()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewRequiresService(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewWithoutCatalog(t *testing.T) {
	v, err := New(Config{Service: routing.NewClient(routing.DefaultConfig("http://127.0.0.1:1"), nil, nil)})
	require.NoError(t, err)
	defer v.Close()

	snap, err := v.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []search.Entry{{Text: search.NoResults, Placeholder: true}}, snap.Panel.Entries)
	assert.Empty(t, snap.Highlighted)
}

func TestFormatTravelTime(t *testing.T) {
	tests := []struct {
		name    string
		seconds *float64
		want    string
	}{
		{"absent", nil, TravelTimeUnavailable},
		{"zero", ptr(0), TravelTimeUnavailable},
		{"negative", ptr(-30), TravelTimeUnavailable},
		{"one minute", ptr(60), "1 minute(s)"},
		{"rounds half up", ptr(90), "2 minute(s)"},
		{"rounds down", ptr(1250), "21 minute(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTravelTime(tt.seconds))
		})
	}
}
