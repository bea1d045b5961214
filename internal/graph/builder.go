package graph

import (
	"fmt"
	"math/rand/v2"

	"metroview.org/internal/models"
)

// FallbackExtent bounds the square in which missing positions are generated.
const FallbackExtent = 1000.0

// RandomPosition picks a point uniformly in the fallback square. Positions
// produced this way differ between builds.
func RandomPosition() Point {
	return Point{
		X: rand.Float64() * FallbackExtent,
		Y: rand.Float64() * FallbackExtent,
	}
}

// Build turns a network document into renderable elements. Stations without
// coordinates get a random position.
func Build(network *models.Network) *Elements {
	return BuildWith(network, RandomPosition)
}

// BuildWith is Build with an explicit generator for missing positions.
//
// Edges referencing an unknown station are not rendered; they are collected in
// Elements.Dropped so callers can report them. Each edge takes the line of its
// start station. Edge ids are unique: when EdgeID repeats, either because the
// same pair appears twice or because hyphenated station ids run together, a
// "#<n>" suffix is appended.
func BuildWith(network *models.Network, fallback func() Point) *Elements {
	elements := &Elements{
		Nodes: []Node{},
		Edges: []Edge{},
	}
	if network == nil {
		return elements
	}
	if fallback == nil {
		fallback = RandomPosition
	}

	byID := make(map[models.StationID]models.Station, len(network.Stations))
	for _, station := range network.Stations {
		if _, seen := byID[station.ID]; seen {
			continue
		}
		byID[station.ID] = station

		var pos Point
		if station.HasPosition() {
			pos = Point{X: *station.PosX, Y: *station.PosY}
		} else {
			pos = fallback()
			elements.Synthesized++
		}

		class := ClassStation
		if station.Terminus {
			class = ClassTerminus
		}

		elements.Nodes = append(elements.Nodes, Node{
			ID:         NodeID(station.ID),
			Station:    station,
			Position:   pos,
			StyleClass: class,
			Color:      NodeColor(station.Line),
		})
	}

	edgeIDs := make(map[string]struct{}, len(network.Edges))
	for _, edge := range network.Edges {
		start, okStart := byID[edge.Start]
		_, okEnd := byID[edge.End]
		if !okStart || !okEnd {
			elements.Dropped = append(elements.Dropped, edge)
			continue
		}

		id := EdgeID(edge.Start, edge.End)
		for n := 1; ; n++ {
			if _, taken := edgeIDs[id]; !taken {
				break
			}
			id = fmt.Sprintf("%s#%d", EdgeID(edge.Start, edge.End), n)
		}
		edgeIDs[id] = struct{}{}

		elements.Edges = append(elements.Edges, Edge{
			ID:         id,
			Source:     NodeID(edge.Start),
			Target:     NodeID(edge.End),
			Edge:       edge,
			Line:       start.Line,
			StyleClass: ClassEdge,
			Color:      EdgeColor(start.Line),
		})
	}

	return elements
}
