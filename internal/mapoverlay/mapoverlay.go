// Package mapoverlay projects stations and routes onto the background map
// image, whose vertical axis grows upward.
package mapoverlay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-polyline"

	"metroview.org/internal/graph"
	"metroview.org/internal/models"
)

// DefaultHeight is the height of the map image in layout units.
const DefaultHeight = 1000.0

// Marker is one station pin on the map overlay.
type Marker struct {
	Name  string    `json:"name"`
	At    []float64 `json:"at"`
	Popup string    `json:"popup"`
}

// DisplayName turns an encoded position name ("Place@des@Fêtes") into text.
func DisplayName(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "@", " "))
}

// Project converts a layout point to map coordinates [height-y, x].
func Project(p graph.Point, height float64) []float64 {
	return []float64{height - p.Y, p.X}
}

func Markers(positions []models.Position, height float64) []Marker {
	markers := make([]Marker, 0, len(positions))
	for _, pos := range positions {
		markers = append(markers, Marker{
			Name: DisplayName(pos.StationName),
			At:   Project(graph.Point{X: pos.PosX, Y: pos.PosY}, height),
			Popup: fmt.Sprintf("Position: %s, %s",
				strconv.FormatFloat(pos.PosX, 'f', -1, 64),
				strconv.FormatFloat(pos.PosY, 'f', -1, 64)),
		})
	}
	return markers
}

// RoutePolylines encodes the pairs of a route response as polylines. A new
// line starts whenever a pair does not continue from the previous one, and
// edges already drawn are not repeated. Pairs with an unknown station are
// ignored.
func RoutePolylines(elements *graph.Elements, pairs []models.EdgePair, height float64) []string {
	polylines := []string{}
	if elements == nil {
		return polylines
	}

	positions := make(map[models.StationID]graph.Point, len(elements.Nodes))
	for _, n := range elements.Nodes {
		positions[n.Station.ID] = n.Position
	}

	type segment struct{ a, b models.StationID }
	drawn := make(map[segment]bool)

	var current [][]float64
	var last models.StationID
	flush := func() {
		if len(current) > 1 {
			polylines = append(polylines, string(polyline.EncodeCoords(current)))
		}
		current = nil
		last = ""
	}

	for _, pair := range pairs {
		from, okFrom := positions[pair.Source]
		to, okTo := positions[pair.Target]
		if !okFrom || !okTo {
			flush()
			continue
		}

		key := segment{pair.Source, pair.Target}
		if pair.Target < pair.Source {
			key = segment{pair.Target, pair.Source}
		}
		if drawn[key] {
			flush()
			continue
		}
		drawn[key] = true

		if last != pair.Source {
			flush()
			current = append(current, Project(from, height))
		}
		current = append(current, Project(to, height))
		last = pair.Target
	}
	flush()

	return polylines
}
