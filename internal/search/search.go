// Package search filters the station list for the search bar.
package search

import (
	"fmt"
	"strings"

	"metroview.org/internal/models"
)

// NoResults is the text of the placeholder entry shown when nothing matches.
const NoResults = "No stations found"

// Filter returns the stations whose name or line contains query, ignoring
// case and surrounding whitespace. An empty query matches every station.
// Input order is preserved.
func Filter(query string, stations []models.Station) []models.Station {
	q := strings.ToLower(strings.TrimSpace(query))

	results := make([]models.Station, 0, len(stations))
	for _, station := range stations {
		if q == "" ||
			strings.Contains(strings.ToLower(station.Name), q) ||
			strings.Contains(strings.ToLower(string(station.Line)), q) {
			results = append(results, station)
		}
	}
	return results
}

// Entry is one line of the results list. Placeholder entries have no station.
type Entry struct {
	StationID   models.StationID `json:"stationId,omitempty"`
	Text        string           `json:"text"`
	Placeholder bool             `json:"placeholder,omitempty"`
}

// Entries renders results for the list. Zero results yield exactly one
// placeholder entry.
func Entries(results []models.Station) []Entry {
	if len(results) == 0 {
		return []Entry{{Text: NoResults, Placeholder: true}}
	}

	entries := make([]Entry, 0, len(results))
	for _, station := range results {
		entries = append(entries, Entry{
			StationID: station.ID,
			Text:      fmt.Sprintf("%s (Line %s)", station.Name, station.Line),
		})
	}
	return entries
}

// Index holds the station list loaded at startup. It is read-only after
// construction and safe for concurrent use.
type Index struct {
	stations []models.Station
}

func NewIndex(stations []models.Station) *Index {
	owned := make([]models.Station, len(stations))
	copy(owned, stations)
	return &Index{stations: owned}
}

func (idx *Index) Filter(query string) []models.Station {
	if idx == nil {
		return []models.Station{}
	}
	return Filter(query, idx.stations)
}

func (idx *Index) Entries(query string) []Entry {
	return Entries(idx.Filter(query))
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.stations)
}
