package graph

import (
	"fmt"
	"strings"

	"metroview.org/internal/models"
)

// Style classes assigned by the builder.
const (
	ClassStation  = "station"
	ClassTerminus = "terminus"
	ClassEdge     = "edge"
)

const nodePrefix = "station-"

// Point is a planar coordinate on the rendering surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is the renderable form of a station.
type Node struct {
	ID            string         `json:"id"`
	Station       models.Station `json:"station"`
	Position      Point          `json:"position"`
	IsDeparture   bool           `json:"isDeparture"`
	IsDestination bool           `json:"isDestination"`
	StyleClass    string         `json:"styleClass"`
	Color         string         `json:"color"`
}

// Edge is the renderable form of a connection between two stations.
type Edge struct {
	ID         string        `json:"id"`
	Source     string        `json:"source"`
	Target     string        `json:"target"`
	Edge       models.Edge   `json:"edge"`
	Line       models.LineID `json:"ligne"`
	StyleClass string        `json:"styleClass"`
	Color      string        `json:"color"`
}

// Elements is the output of a build: every node and every resolvable edge.
type Elements struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// Dropped holds input edges with at least one unknown endpoint.
	Dropped []models.Edge `json:"-"`
	// Synthesized counts nodes whose position was generated.
	Synthesized int `json:"-"`
}

// NodeID returns the element id for a station.
func NodeID(id models.StationID) string {
	return nodePrefix + string(id)
}

// StationIDFromNode recovers the station id from a node element id.
func StationIDFromNode(elementID string) (models.StationID, bool) {
	if !strings.HasPrefix(elementID, nodePrefix) {
		return "", false
	}
	id := strings.TrimPrefix(elementID, nodePrefix)
	if id == "" {
		return "", false
	}
	return models.StationID(id), true
}

// EdgeID returns the element id for an edge.
func EdgeID(start, end models.StationID) string {
	return fmt.Sprintf("edge-%s-%s", start, end)
}

// Clone returns a deep enough copy for a rendering surface to own: node and
// edge slices are copied, station records are shared read-only.
func (e *Elements) Clone() *Elements {
	if e == nil {
		return &Elements{}
	}
	out := &Elements{
		Nodes:       make([]Node, len(e.Nodes)),
		Edges:       make([]Edge, len(e.Edges)),
		Dropped:     e.Dropped,
		Synthesized: e.Synthesized,
	}
	copy(out.Nodes, e.Nodes)
	copy(out.Edges, e.Edges)
	return out
}
