package graph

import (
	"strings"

	"metroview.org/internal/models"
)

// Fallback colours for line identifiers missing from the palette.
const (
	DefaultNodeColor = "#000000"
	DefaultEdgeColor = "#cccccc"
)

var lineColors = map[string]string{
	"1":    "#FFCD00",
	"2":    "#003CA6",
	"3":    "#837902",
	"3bis": "#6EC4E8",
	"4":    "#CF009E",
	"5":    "#FF7E2E",
	"6":    "#6ECA97",
	"7":    "#FA9ABA",
	"7bis": "#6CAEDF",
	"8":    "#E19BDF",
	"9":    "#B6BD00",
	"10":   "#C9910D",
	"11":   "#704B1C",
	"12":   "#007852",
	"13":   "#6EC4E8",
	"14":   "#62259D",
}

func lookupLineColor(line models.LineID) (string, bool) {
	c, ok := lineColors[strings.ToLower(strings.TrimSpace(string(line)))]
	return c, ok
}

// NodeColor returns the border colour for a station on the given line.
func NodeColor(line models.LineID) string {
	if c, ok := lookupLineColor(line); ok {
		return c
	}
	return DefaultNodeColor
}

// EdgeColor returns the stroke colour for an edge on the given line.
func EdgeColor(line models.LineID) string {
	if c, ok := lookupLineColor(line); ok {
		return c
	}
	return DefaultEdgeColor
}
