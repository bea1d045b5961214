// Package selection tracks which stations are chosen as departure and
// destination across successive clicks.
package selection

import (
	"fmt"
	"log/slog"

	"metroview.org/internal/graph"
	"metroview.org/internal/models"
	"metroview.org/internal/surface"
)

type Phase int

const (
	Empty Phase = iota
	OneSelected
	TwoSelected
)

func (p Phase) String() string {
	switch p {
	case OneSelected:
		return "one_selected"
	case TwoSelected:
		return "two_selected"
	default:
		return "empty"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty":
		*p = Empty
	case "one_selected":
		*p = OneSelected
	case "two_selected":
		*p = TwoSelected
	default:
		return fmt.Errorf("unknown selection phase %q", text)
	}
	return nil
}

// State is the current selection. Departure is set in OneSelected and
// TwoSelected, Destination only in TwoSelected, and the two always differ.
type State struct {
	Phase       Phase            `json:"phase"`
	Departure   models.StationID `json:"departure,omitempty"`
	Destination models.StationID `json:"destination,omitempty"`
}

// Complete reports whether a route can be requested.
func (s State) Complete() bool {
	return s.Phase == TwoSelected
}

// Directory resolves station ids to their records.
type Directory interface {
	Station(id models.StationID) (models.Station, bool)
}

// Labels receives the text shown next to the departure and destination
// fields, and transient confirmation messages.
type Labels interface {
	SetDeparture(text string)
	SetDestination(text string)
	Notify(message string)
}

// Machine is the selection state machine. It must be driven from a single
// goroutine, the same one that owns the surface.
//
//	Empty          --click X-->            OneSelected(X)
//	OneSelected(D) --click X, X != D-->    TwoSelected(D, X)
//	OneSelected(D) --click D-->            Empty
//	TwoSelected    --click X-->            OneSelected(X)
type Machine struct {
	state    State
	surface  surface.Surface
	stations Directory
	labels   Labels
	logger   *slog.Logger
}

func NewMachine(s surface.Surface, stations Directory, labels Labels, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		surface:  s,
		stations: stations,
		labels:   labels,
		logger:   logger.With(slog.String("component", "selection")),
	}
}

func (m *Machine) State() State {
	return m.state
}

// Click applies a click on station id, from the graph or the results list.
// Unknown stations are ignored.
func (m *Machine) Click(id models.StationID) State {
	station, ok := m.stations.Station(id)
	if !ok {
		m.logger.Warn("click on unknown station", slog.String("station_id", string(id)))
		return m.state
	}

	switch m.state.Phase {
	case Empty:
		m.selectDeparture(station)
		m.labels.Notify("")

	case OneSelected:
		if id == m.state.Departure {
			m.unmark(m.state.Departure)
			m.state = State{Phase: Empty}
			m.labels.SetDeparture("")
			m.labels.Notify("")
			break
		}
		m.mark(id, surface.AttrDestination)
		m.state = State{Phase: TwoSelected, Departure: m.state.Departure, Destination: id}
		m.labels.SetDestination(label(station))
		m.labels.Notify("")

	case TwoSelected:
		m.unmark(m.state.Departure)
		m.unmark(m.state.Destination)
		m.state = State{}
		m.selectDeparture(station)
		m.labels.SetDestination("")
		m.labels.Notify(fmt.Sprintf("Departure selected: %s", station.Name))
	}

	m.logger.Debug("selection changed",
		slog.String("phase", m.state.Phase.String()),
		slog.String("departure", string(m.state.Departure)),
		slog.String("destination", string(m.state.Destination)))

	return m.state
}

// Reset clears the selection and every mark.
func (m *Machine) Reset() {
	if m.state.Departure != "" {
		m.unmark(m.state.Departure)
	}
	if m.state.Destination != "" {
		m.unmark(m.state.Destination)
	}
	m.state = State{}
	m.labels.SetDeparture("")
	m.labels.SetDestination("")
	m.labels.Notify("")
}

func (m *Machine) selectDeparture(station models.Station) {
	m.mark(station.ID, surface.AttrDeparture)
	m.state = State{Phase: OneSelected, Departure: station.ID}
	m.labels.SetDeparture(label(station))
}

// mark flags a node with exactly one role.
func (m *Machine) mark(id models.StationID, role string) {
	node := graph.NodeID(id)
	depart, destination := surface.False, surface.False
	if role == surface.AttrDeparture {
		depart = surface.True
	} else {
		destination = surface.True
	}
	if !m.surface.SetAttr(node, surface.AttrDeparture, depart) ||
		!m.surface.SetAttr(node, surface.AttrDestination, destination) {
		m.logger.Warn("station has no node on the surface", slog.String("station_id", string(id)))
	}
}

func (m *Machine) unmark(id models.StationID) {
	node := graph.NodeID(id)
	m.surface.SetAttr(node, surface.AttrDeparture, surface.False)
	m.surface.SetAttr(node, surface.AttrDestination, surface.False)
}

func label(station models.Station) string {
	return fmt.Sprintf("%s ( Line %s )", station.Name, station.Line)
}
