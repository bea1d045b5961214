// Package network loads the station network and keeps it in memory.
package network

import (
	"log/slog"
	"time"

	"metroview.org/internal/graph"
	"metroview.org/internal/models"
)

// Store is a loaded network. It is read-only once built and safe for
// concurrent use.
type Store struct {
	stations  []models.Station
	byID      map[models.StationID]models.Station
	edges     []models.Edge
	positions []models.Position
	elements  *graph.Elements
	loadedAt  time.Time
}

// Summary counts what a load produced.
type Summary struct {
	Stations     int       `json:"stations"`
	Edges        int       `json:"edges"`
	Positions    int       `json:"positions"`
	Nodes        int       `json:"nodes"`
	RenderEdges  int       `json:"renderedEdges"`
	DroppedEdges int       `json:"droppedEdges"`
	Synthesized  int       `json:"synthesizedPositions"`
	LoadedAt     time.Time `json:"loadedAt"`
}

// NewStore joins positions into the network and builds its graph elements.
// A nil network yields an empty store.
func NewStore(network *models.Network, positions []models.Position, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if network == nil {
		network = &models.Network{}
	}

	stations, filled := JoinPositions(network.Stations, positions)
	joined := &models.Network{Stations: stations, Edges: network.Edges}
	elements := graph.Build(joined)

	s := &Store{
		stations:  stations,
		byID:      make(map[models.StationID]models.Station, len(stations)),
		edges:     network.Edges,
		positions: positions,
		elements:  elements,
		loadedAt:  time.Now(),
	}
	for _, st := range stations {
		if _, dup := s.byID[st.ID]; !dup {
			s.byID[st.ID] = st
		}
	}

	for _, e := range elements.Dropped {
		logger.Warn("dropping edge with unknown endpoint",
			slog.String("start", string(e.Start)),
			slog.String("end", string(e.End)))
	}
	logger.Info("network loaded",
		slog.Int("stations", len(stations)),
		slog.Int("edges", len(elements.Edges)),
		slog.Int("positions_joined", filled),
		slog.Int("positions_synthesized", elements.Synthesized))

	return s
}

// Empty is the store used before a successful load.
func Empty() *Store {
	return NewStore(nil, nil, slog.New(slog.DiscardHandler))
}

func (s *Store) Station(id models.StationID) (models.Station, bool) {
	st, ok := s.byID[id]
	return st, ok
}

func (s *Store) Stations() []models.Station {
	return s.stations
}

func (s *Store) Positions() []models.Position {
	return s.positions
}

// Elements returns the built graph. Callers that need to mutate it must
// Clone it first.
func (s *Store) Elements() *graph.Elements {
	return s.elements
}

func (s *Store) Summary() Summary {
	return Summary{
		Stations:     len(s.stations),
		Edges:        len(s.edges),
		Positions:    len(s.positions),
		Nodes:        len(s.elements.Nodes),
		RenderEdges:  len(s.elements.Edges),
		DroppedEdges: len(s.elements.Dropped),
		Synthesized:  s.elements.Synthesized,
		LoadedAt:     s.loadedAt,
	}
}
