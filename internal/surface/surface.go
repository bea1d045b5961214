// Package surface describes the capabilities the viewer needs from a graph
// rendering library, and provides Canvas, an in-memory implementation whose
// state is mirrored to browser clients.
package surface

import (
	"fmt"
	"strings"

	"metroview.org/internal/graph"
)

// Attribute keys set on every element by Canvas.
const (
	AttrID          = "id"
	AttrName        = "name"
	AttrLine        = "ligne"
	AttrTerminus    = "terminus"
	AttrDeparture   = "depart"
	AttrDestination = "destination"
	AttrSource      = "source"
	AttrTarget      = "target"
	AttrTime        = "time"
)

// Boolean attribute values.
const (
	True  = "True"
	False = "False"
)

type Kind int

const (
	AnyKind Kind = iota
	NodeKind
	EdgeKind
)

func (k Kind) String() string {
	switch k {
	case NodeKind:
		return "node"
	case EdgeKind:
		return "edge"
	default:
		return "*"
	}
}

// Match is one attribute-equality clause of a Selector.
type Match struct {
	Key   string
	Value string
}

func Eq(key, value string) Match {
	return Match{Key: key, Value: value}
}

// Selector selects elements of a kind whose attributes equal every clause.
type Selector struct {
	Kind    Kind
	Matches []Match
}

func Nodes(matches ...Match) Selector {
	return Selector{Kind: NodeKind, Matches: matches}
}

func Edges(matches ...Match) Selector {
	return Selector{Kind: EdgeKind, Matches: matches}
}

// String renders the selector in the usual `node[key="value"]` notation.
func (s Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	for _, m := range s.Matches {
		fmt.Fprintf(&b, "[%s=%q]", m.Key, m.Value)
	}
	return b.String()
}

type (
	HoverHandler func(nodeID string, at graph.Point)
	NodeHandler  func(nodeID string)
	PointHandler func(at graph.Point)
)

// Surface is the rendering capability driven by the viewer components.
// Implementations are not required to be safe for concurrent use.
type Surface interface {
	OnNodeHoverEnter(h HoverHandler)
	OnNodeHoverExit(h NodeHandler)
	OnPointerMove(h PointHandler)
	OnNodeClick(h NodeHandler)
	OnBackgroundClick(h func())

	Attr(id, key string) (string, bool)
	SetAttr(id, key, value string) bool

	AddClass(id, class string) bool
	RemoveClass(id, class string) bool
	HasClass(id, class string) bool
	// ClearClass removes class from every element.
	ClearClass(class string)

	Select(sel Selector) []string

	// Fit frames the given elements with padding. It reports whether the
	// viewport changed.
	Fit(ids []string, padding float64) bool
}
