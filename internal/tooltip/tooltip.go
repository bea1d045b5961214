// Package tooltip shows station details while the pointer hovers a node.
package tooltip

import (
	"metroview.org/internal/graph"
	"metroview.org/internal/surface"
)

// Offset between the pointer and the overlay's top-left corner.
const Offset = 10.0

// Overlay is what the tooltip currently displays.
type Overlay struct {
	Visible  bool        `json:"visible"`
	NodeID   string      `json:"nodeId,omitempty"`
	Name     string      `json:"name,omitempty"`
	Line     string      `json:"line,omitempty"`
	Terminus string      `json:"terminus,omitempty"`
	At       graph.Point `json:"at"`
}

// Controller wires hover events of a surface to an Overlay.
type Controller struct {
	surface surface.Surface
	overlay Overlay
}

// Attach registers the controller's handlers on s.
func Attach(s surface.Surface) *Controller {
	c := &Controller{surface: s}
	s.OnNodeHoverEnter(c.show)
	s.OnNodeHoverExit(func(string) { c.hide() })
	s.OnPointerMove(c.move)
	return c
}

func (c *Controller) Overlay() Overlay {
	return c.overlay
}

func (c *Controller) show(nodeID string, at graph.Point) {
	name, _ := c.surface.Attr(nodeID, surface.AttrName)
	line, _ := c.surface.Attr(nodeID, surface.AttrLine)
	terminus, _ := c.surface.Attr(nodeID, surface.AttrTerminus)

	c.overlay = Overlay{
		Visible:  true,
		NodeID:   nodeID,
		Name:     name,
		Line:     line,
		Terminus: yesNo(terminus == surface.True),
		At:       offset(at),
	}
}

func (c *Controller) move(at graph.Point) {
	if !c.overlay.Visible {
		return
	}
	c.overlay.At = offset(at)
}

func (c *Controller) hide() {
	c.overlay = Overlay{}
}

func offset(at graph.Point) graph.Point {
	return graph.Point{X: at.X + Offset, Y: at.Y + Offset}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
