package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"metroview.org/internal/graph"
	"metroview.org/internal/models"
)

var (
	title  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
)

// lineColor renders text in the colour of a metro line.
func lineColor(line models.LineID) *color.Color {
	r, g, b, ok := parseHex(graph.NodeColor(line))
	if !ok {
		return color.New(color.Reset)
	}
	return color.RGB(r, g, b)
}

func parseHex(hex string) (int, int, int, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func heading(w io.Writer, text string) {
	_, _ = title.Fprintln(w, text)
}

func stationLine(w io.Writer, station models.Station) {
	_, _ = fmt.Fprintf(w, "  %s %s %s\n",
		lineColor(station.Line).Sprint("●"),
		station.Name,
		subtle.Sprintf("(Line %s, id %s)", station.Line, station.ID))
}
