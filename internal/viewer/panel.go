package viewer

import (
	"fmt"
	"math"
	"slices"

	"metroview.org/internal/search"
)

const (
	NoItinerary           = "No itinerary steps available."
	TravelTimeUnavailable = "Travel time unavailable"
)

// Panel is the text shown around the graph: selection labels, the last
// notice, search results and the itinerary of the last route.
type Panel struct {
	Departure   string         `json:"departure"`
	Destination string         `json:"destination"`
	Notice      string         `json:"notice,omitempty"`
	Query       string         `json:"query"`
	Entries     []search.Entry `json:"entries"`
	Itinerary   []string       `json:"itinerary"`
	TravelTime  string         `json:"travelTime"`
	NoRoute     bool           `json:"noRoute"`
}

func (p *Panel) SetDeparture(text string)   { p.Departure = text }
func (p *Panel) SetDestination(text string) { p.Destination = text }
func (p *Panel) Notify(message string)      { p.Notice = message }

func (p Panel) clone() Panel {
	p.Entries = slices.Clone(p.Entries)
	p.Itinerary = slices.Clone(p.Itinerary)
	return p
}

// FormatTravelTime renders a duration in seconds as whole minutes.
func FormatTravelTime(seconds *float64) string {
	if seconds == nil || *seconds <= 0 {
		return TravelTimeUnavailable
	}
	return fmt.Sprintf("%d minute(s)", int(math.Round(*seconds/60)))
}

func itinerarySteps(steps []string) []string {
	if len(steps) == 0 {
		return []string{NoItinerary}
	}
	return slices.Clone(steps)
}
