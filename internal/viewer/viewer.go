// Package viewer holds the state of one interactive graph session and
// serializes every change to it on an event loop.
package viewer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"metroview.org/internal/graph"
	"metroview.org/internal/highlight"
	"metroview.org/internal/mapoverlay"
	"metroview.org/internal/models"
	"metroview.org/internal/routing"
	"metroview.org/internal/search"
	"metroview.org/internal/selection"
	"metroview.org/internal/surface"
	"metroview.org/internal/tooltip"
)

var errNoService = errors.New("viewer requires a route service")

// Catalog is the read-only network a viewer displays.
type Catalog interface {
	selection.Directory
	Stations() []models.Station
	Elements() *graph.Elements
}

// Publisher receives a snapshot after every change.
type Publisher interface {
	Publish(Snapshot)
}

type PublisherFunc func(Snapshot)

func (f PublisherFunc) Publish(s Snapshot) { f(s) }

type Config struct {
	Catalog      Catalog
	Service      routing.Service
	Publisher    Publisher
	Logger       *slog.Logger
	RouteTimeout time.Duration
	MapHeight    float64
}

// Snapshot is a copy of the viewer state at one point in time.
type Snapshot struct {
	Version     uint64           `json:"version"`
	Selection   selection.State  `json:"selection"`
	Panel       Panel            `json:"panel"`
	Tooltip     tooltip.Overlay  `json:"tooltip"`
	Highlight   highlight.Result `json:"highlight"`
	Highlighted []string         `json:"highlighted"`
	Viewport    surface.Viewport `json:"viewport"`
	Polylines   []string         `json:"polylines"`
	Pending     uint64           `json:"latestRequest"`
}

type Viewer struct {
	loop         *Loop
	canvas       *surface.Canvas
	elements     *graph.Elements
	machine      *selection.Machine
	tooltip      *tooltip.Controller
	renderer     *highlight.Renderer
	orchestrator *routing.Orchestrator
	index        *search.Index
	publisher    Publisher
	logger       *slog.Logger
	mapHeight    float64

	panel     Panel
	result    highlight.Result
	polylines []string
	version   uint64
}

func New(cfg Config) (*Viewer, error) {
	if cfg.Service == nil {
		return nil, errNoService
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	height := cfg.MapHeight
	if height <= 0 {
		height = mapoverlay.DefaultHeight
	}

	var catalog Catalog = emptyCatalog{}
	if cfg.Catalog != nil {
		catalog = cfg.Catalog
	}

	v := &Viewer{
		loop:      NewLoop(),
		elements:  catalog.Elements().Clone(),
		index:     search.NewIndex(catalog.Stations()),
		publisher: cfg.Publisher,
		logger:    logger.With(slog.String("component", "viewer")),
		mapHeight: height,
		polylines: []string{},
	}
	v.canvas = surface.NewCanvas(v.elements)
	if dups := v.canvas.Duplicates(); len(dups) > 0 {
		v.logger.Warn("duplicate element ids not rendered",
			slog.Int("count", len(dups)),
			slog.Any("ids", dups))
	}
	v.machine = selection.NewMachine(v.canvas, catalog, &v.panel, logger)
	v.tooltip = tooltip.Attach(v.canvas)
	v.renderer = highlight.New(v.canvas, logger)
	v.orchestrator = routing.NewOrchestrator(cfg.Service, v.loop, v.applyRoute,
		routing.WithLogger(logger),
		routing.WithTimeout(cfg.RouteTimeout))

	v.canvas.OnNodeClick(func(nodeID string) {
		if id, ok := graph.StationIDFromNode(nodeID); ok {
			v.machine.Click(id)
		}
	})
	v.canvas.OnBackgroundClick(v.clearHighlight)

	v.panel.Entries = v.index.Entries("")
	v.result = highlight.Result{Nodes: []string{}, Edges: []string{}}

	return v, nil
}

// ClickStation is a click on the station's node in the graph.
func (v *Viewer) ClickStation(id models.StationID) (Snapshot, error) {
	return v.update(func() {
		node := graph.NodeID(id)
		if _, ok := v.canvas.Position(node); !ok {
			v.machine.Click(id)
			return
		}
		v.canvas.Click(node)
	})
}

// ClickListEntry is a click on a station in the search results.
func (v *Viewer) ClickListEntry(id models.StationID) (Snapshot, error) {
	return v.update(func() { v.machine.Click(id) })
}

// ClearSelection drops the departure and destination and their labels. The
// highlighted route, if any, stays.
func (v *Viewer) ClearSelection() (Snapshot, error) {
	return v.update(v.machine.Reset)
}

// ClickBackground is a click on the empty canvas. It clears the highlight
// and leaves the selection alone.
func (v *Viewer) ClickBackground() (Snapshot, error) {
	return v.update(v.canvas.ClickBackground)
}

func (v *Viewer) HoverEnter(id models.StationID, at graph.Point) (Snapshot, error) {
	return v.update(func() { v.canvas.HoverEnter(graph.NodeID(id), at) })
}

func (v *Viewer) HoverExit(id models.StationID) (Snapshot, error) {
	return v.update(func() { v.canvas.HoverExit(graph.NodeID(id)) })
}

func (v *Viewer) MovePointer(at graph.Point) (Snapshot, error) {
	return v.update(func() { v.canvas.MovePointer(at) })
}

// Search filters the station list and stores the rendered entries.
func (v *Viewer) Search(query string) (Snapshot, error) {
	return v.update(func() {
		v.panel.Query = query
		v.panel.Entries = v.index.Entries(query)
	})
}

// RequestRoute asks for the shortest path between the selected stations. It
// returns routing.ErrIncompleteSelection when fewer than two are selected.
func (v *Viewer) RequestRoute(ctx context.Context) (Snapshot, error) {
	var reqErr error
	snap, err := v.update(func() {
		state := v.machine.State()
		reqErr = v.orchestrator.RequestShortestPath(ctx, state.Departure, state.Destination)
	})
	if err != nil {
		return snap, err
	}
	return snap, reqErr
}

// RequestForest asks for the minimum spanning forest of the network.
func (v *Viewer) RequestForest(ctx context.Context) (Snapshot, error) {
	return v.update(func() { v.orchestrator.RequestSpanningForest(ctx) })
}

func (v *Viewer) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := v.loop.Do(func() { snap = v.snapshot() })
	return snap, err
}

// Elements returns the state of every element on the canvas.
func (v *Viewer) Elements() ([]surface.ElementState, error) {
	var states []surface.ElementState
	err := v.loop.Do(func() { states = v.canvas.State() })
	return states, err
}

// Wait blocks until every route request issued so far has settled.
func (v *Viewer) Wait() {
	v.orchestrator.Wait()
}

// Close stops the event loop. Responses arriving afterwards are dropped.
func (v *Viewer) Close() {
	v.loop.Close()
}

func (v *Viewer) update(fn func()) (Snapshot, error) {
	var snap Snapshot
	err := v.loop.Do(func() {
		fn()
		snap = v.commit()
	})
	return snap, err
}

// commit runs on the loop after every change.
func (v *Viewer) commit() Snapshot {
	v.version++
	snap := v.snapshot()
	if v.publisher != nil {
		v.publisher.Publish(snap)
	}
	return snap
}

func (v *Viewer) snapshot() Snapshot {
	return Snapshot{
		Version:     v.version,
		Selection:   v.machine.State(),
		Panel:       v.panel.clone(),
		Tooltip:     v.tooltip.Overlay(),
		Highlight:   v.result,
		Highlighted: v.canvas.WithClass(highlight.Class),
		Viewport:    v.canvas.Viewport(),
		Polylines:   append([]string{}, v.polylines...),
		Pending:     v.orchestrator.Latest(),
	}
}

func (v *Viewer) clearHighlight() {
	v.renderer.Clear()
	v.result = highlight.Result{Nodes: []string{}, Edges: []string{}}
	v.polylines = []string{}
}

// applyRoute runs on the loop for the latest successful route response.
func (v *Viewer) applyRoute(out routing.Outcome) {
	data := out.Data
	v.panel.Itinerary = itinerarySteps(data.Itinerary)
	v.panel.TravelTime = FormatTravelTime(data.Time)
	v.result = v.renderer.Render(data.Pairs)
	v.panel.NoRoute = v.result.NoRoute
	v.polylines = mapoverlay.RoutePolylines(v.elements, data.Pairs, v.mapHeight)

	v.logger.Info("route applied",
		slog.String("kind", out.Kind.String()),
		slog.Int("nodes", len(v.result.Nodes)),
		slog.Int("edges", len(v.result.Edges)),
		slog.Int("skipped", len(v.result.Skipped)))

	v.commit()
}

type emptyCatalog struct{}

func (emptyCatalog) Station(models.StationID) (models.Station, bool) { return models.Station{}, false }
func (emptyCatalog) Stations() []models.Station                     { return nil }
func (emptyCatalog) Elements() *graph.Elements                      { return &graph.Elements{} }
