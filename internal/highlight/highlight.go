// Package highlight marks the stations and edges of a route response on a
// rendering surface.
package highlight

import (
	"log/slog"

	"metroview.org/internal/graph"
	"metroview.org/internal/models"
	"metroview.org/internal/surface"
)

const (
	// Class is the style class applied to highlighted elements.
	Class = "highlighted"
	// Padding is kept around the highlighted elements when framing them.
	Padding = 50.0
)

// Result describes what a Render call changed.
type Result struct {
	Nodes   []string          `json:"nodes"`
	Edges   []string          `json:"edges"`
	Skipped []models.EdgePair `json:"skipped,omitempty"`
	NoRoute bool              `json:"noRoute"`
	Fitted  bool              `json:"fitted"`
}

type Renderer struct {
	surface surface.Surface
	logger  *slog.Logger
}

func New(s surface.Surface, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		surface: s,
		logger:  logger.With(slog.String("component", "highlight")),
	}
}

// Clear removes every highlight mark.
func (r *Renderer) Clear() {
	r.surface.ClearClass(Class)
}

// Render replaces the current highlight with the given pairs. Pairs whose
// stations or connecting edge are not on the surface are skipped. The
// viewport is framed on the result only when something was highlighted.
func (r *Renderer) Render(pairs []models.EdgePair) Result {
	r.Clear()

	result := Result{Nodes: []string{}, Edges: []string{}}
	if len(pairs) == 0 {
		result.NoRoute = true
		r.logger.Info("no route to highlight")
		return result
	}

	seen := make(map[string]bool)
	add := func(id string, into *[]string) {
		if seen[id] {
			return
		}
		seen[id] = true
		r.surface.AddClass(id, Class)
		*into = append(*into, id)
	}

	for _, pair := range pairs {
		source, target := graph.NodeID(pair.Source), graph.NodeID(pair.Target)

		edge, ok := r.findEdge(source, target)
		if !ok || !r.hasNode(source) || !r.hasNode(target) {
			r.logger.Debug("skipping pair missing from the graph",
				slog.String("source", string(pair.Source)),
				slog.String("target", string(pair.Target)))
			result.Skipped = append(result.Skipped, pair)
			continue
		}

		add(edge, &result.Edges)
		add(source, &result.Nodes)
		add(target, &result.Nodes)
	}

	if len(result.Edges) > 0 {
		highlighted := make([]string, 0, len(result.Nodes)+len(result.Edges))
		highlighted = append(highlighted, result.Nodes...)
		highlighted = append(highlighted, result.Edges...)
		result.Fitted = r.surface.Fit(highlighted, Padding)
	}

	if len(result.Skipped) > 0 {
		r.logger.Warn("route referenced elements missing from the graph",
			slog.Int("skipped", len(result.Skipped)),
			slog.Int("pairs", len(pairs)))
	}

	return result
}

// findEdge looks for the edge between two nodes, in either orientation.
func (r *Renderer) findEdge(a, b string) (string, bool) {
	ids := r.surface.Select(surface.Edges(surface.Eq(surface.AttrSource, a), surface.Eq(surface.AttrTarget, b)))
	if len(ids) == 0 {
		ids = r.surface.Select(surface.Edges(surface.Eq(surface.AttrSource, b), surface.Eq(surface.AttrTarget, a)))
	}
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

func (r *Renderer) hasNode(id string) bool {
	return len(r.surface.Select(surface.Nodes(surface.Eq(surface.AttrID, id)))) > 0
}
