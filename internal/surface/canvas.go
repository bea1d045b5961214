package surface

import (
	"math"
	"sort"
	"strconv"

	"metroview.org/internal/graph"
)

type element struct {
	kind     Kind
	attrs    map[string]string
	classes  map[string]struct{}
	position graph.Point
}

// Viewport is the visible region of the canvas.
type Viewport struct {
	MinX    float64 `json:"minX"`
	MinY    float64 `json:"minY"`
	MaxX    float64 `json:"maxX"`
	MaxY    float64 `json:"maxY"`
	Padding float64 `json:"padding"`
	// Fits counts how many times the viewport was adjusted.
	Fits int `json:"fits"`
}

// ElementState is a read-only view of one element, used for snapshots.
type ElementState struct {
	ID      string            `json:"id"`
	Kind    string            `json:"kind"`
	Attrs   map[string]string `json:"attrs"`
	Classes []string          `json:"classes"`
}

// Canvas is an in-memory Surface. It is owned by a single goroutine.
type Canvas struct {
	elements   map[string]*element
	order      []string
	viewport   Viewport
	duplicates []string

	hoverEnter []HoverHandler
	hoverExit  []NodeHandler
	move       []PointHandler
	nodeClick  []NodeHandler
	background []func()
}

var _ Surface = (*Canvas)(nil)

// NewCanvas lays out the given elements at their absolute positions.
func NewCanvas(elements *graph.Elements) *Canvas {
	c := &Canvas{elements: make(map[string]*element)}
	if elements == nil {
		return c
	}

	for _, n := range elements.Nodes {
		c.put(n.ID, &element{
			kind: NodeKind,
			attrs: map[string]string{
				AttrID:          n.ID,
				AttrName:        n.Station.Name,
				AttrLine:        string(n.Station.Line),
				AttrTerminus:    n.Station.Terminus.AttrValue(),
				AttrDeparture:   boolAttr(n.IsDeparture),
				AttrDestination: boolAttr(n.IsDestination),
			},
			classes:  map[string]struct{}{n.StyleClass: {}},
			position: n.Position,
		})
	}
	for _, e := range elements.Edges {
		c.put(e.ID, &element{
			kind: EdgeKind,
			attrs: map[string]string{
				AttrID:     e.ID,
				AttrSource: e.Source,
				AttrTarget: e.Target,
				AttrTime:   strconv.Itoa(e.Edge.Time),
				AttrLine:   string(e.Line),
			},
			classes: map[string]struct{}{e.StyleClass: {}},
		})
	}

	c.viewport, _ = c.bounds(c.order, 0)
	return c
}

// put adds an element. An id already on the canvas keeps its first element
// and is recorded in duplicates.
func (c *Canvas) put(id string, el *element) {
	if _, exists := c.elements[id]; exists {
		c.duplicates = append(c.duplicates, id)
		return
	}
	c.order = append(c.order, id)
	c.elements[id] = el
}

// Duplicates lists the element ids that were given more than once to
// NewCanvas. Only the first element with each id is on the canvas.
func (c *Canvas) Duplicates() []string {
	return c.duplicates
}

func boolAttr(v bool) string {
	if v {
		return True
	}
	return False
}

func (c *Canvas) OnNodeHoverEnter(h HoverHandler) { c.hoverEnter = append(c.hoverEnter, h) }
func (c *Canvas) OnNodeHoverExit(h NodeHandler)   { c.hoverExit = append(c.hoverExit, h) }
func (c *Canvas) OnPointerMove(h PointHandler)    { c.move = append(c.move, h) }
func (c *Canvas) OnNodeClick(h NodeHandler)       { c.nodeClick = append(c.nodeClick, h) }
func (c *Canvas) OnBackgroundClick(h func())      { c.background = append(c.background, h) }

func (c *Canvas) isNode(id string) bool {
	el, ok := c.elements[id]
	return ok && el.kind == NodeKind
}

// HoverEnter dispatches a hover-enter event. Events on non-node targets are ignored.
func (c *Canvas) HoverEnter(id string, at graph.Point) {
	if !c.isNode(id) {
		return
	}
	for _, h := range c.hoverEnter {
		h(id, at)
	}
}

func (c *Canvas) HoverExit(id string) {
	if !c.isNode(id) {
		return
	}
	for _, h := range c.hoverExit {
		h(id)
	}
}

func (c *Canvas) MovePointer(at graph.Point) {
	for _, h := range c.move {
		h(at)
	}
}

// Click dispatches a click. Anything that is not a node counts as background.
func (c *Canvas) Click(id string) {
	if !c.isNode(id) {
		c.ClickBackground()
		return
	}
	for _, h := range c.nodeClick {
		h(id)
	}
}

func (c *Canvas) ClickBackground() {
	for _, h := range c.background {
		h()
	}
}

func (c *Canvas) Attr(id, key string) (string, bool) {
	el, ok := c.elements[id]
	if !ok {
		return "", false
	}
	v, ok := el.attrs[key]
	return v, ok
}

func (c *Canvas) SetAttr(id, key, value string) bool {
	el, ok := c.elements[id]
	if !ok {
		return false
	}
	el.attrs[key] = value
	return true
}

func (c *Canvas) AddClass(id, class string) bool {
	el, ok := c.elements[id]
	if !ok {
		return false
	}
	el.classes[class] = struct{}{}
	return true
}

func (c *Canvas) RemoveClass(id, class string) bool {
	el, ok := c.elements[id]
	if !ok {
		return false
	}
	delete(el.classes, class)
	return true
}

func (c *Canvas) HasClass(id, class string) bool {
	el, ok := c.elements[id]
	if !ok {
		return false
	}
	_, has := el.classes[class]
	return has
}

func (c *Canvas) ClearClass(class string) {
	for _, el := range c.elements {
		delete(el.classes, class)
	}
}

// Select returns matching element ids in layout order.
func (c *Canvas) Select(sel Selector) []string {
	var ids []string
	for _, id := range c.order {
		el := c.elements[id]
		if sel.Kind != AnyKind && el.kind != sel.Kind {
			continue
		}
		if matches(el, sel.Matches) {
			ids = append(ids, id)
		}
	}
	return ids
}

func matches(el *element, clauses []Match) bool {
	for _, m := range clauses {
		if el.attrs[m.Key] != m.Value {
			return false
		}
	}
	return true
}

// WithClass lists element ids carrying class, in layout order.
func (c *Canvas) WithClass(class string) []string {
	ids := []string{}
	for _, id := range c.order {
		if _, ok := c.elements[id].classes[class]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Position returns the layout position of a node.
func (c *Canvas) Position(id string) (graph.Point, bool) {
	el, ok := c.elements[id]
	if !ok || el.kind != NodeKind {
		return graph.Point{}, false
	}
	return el.position, true
}

func (c *Canvas) Fit(ids []string, padding float64) bool {
	vp, ok := c.bounds(ids, padding)
	if !ok {
		return false
	}
	vp.Fits = c.viewport.Fits + 1
	c.viewport = vp
	return true
}

func (c *Canvas) Viewport() Viewport {
	return c.viewport
}

// bounds computes the box around the nodes in ids; edges contribute their
// endpoints. It reports false when no node position was found.
func (c *Canvas) bounds(ids []string, padding float64) (Viewport, bool) {
	vp := Viewport{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
		Padding: padding,
	}
	found := false
	include := func(id string) {
		el, ok := c.elements[id]
		if !ok || el.kind != NodeKind {
			return
		}
		found = true
		vp.MinX = math.Min(vp.MinX, el.position.X-padding)
		vp.MinY = math.Min(vp.MinY, el.position.Y-padding)
		vp.MaxX = math.Max(vp.MaxX, el.position.X+padding)
		vp.MaxY = math.Max(vp.MaxY, el.position.Y+padding)
	}

	for _, id := range ids {
		el, ok := c.elements[id]
		if !ok {
			continue
		}
		if el.kind == EdgeKind {
			include(el.attrs[AttrSource])
			include(el.attrs[AttrTarget])
			continue
		}
		include(id)
	}
	if !found {
		return Viewport{}, false
	}
	return vp, true
}

// State returns a view of every element, for snapshots and debugging.
func (c *Canvas) State() []ElementState {
	states := make([]ElementState, 0, len(c.order))
	for _, id := range c.order {
		el := c.elements[id]
		attrs := make(map[string]string, len(el.attrs))
		for k, v := range el.attrs {
			attrs[k] = v
		}
		classes := make([]string, 0, len(el.classes))
		for class := range el.classes {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		states = append(states, ElementState{
			ID:      id,
			Kind:    el.kind.String(),
			Attrs:   attrs,
			Classes: classes,
		})
	}
	return states
}
