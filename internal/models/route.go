package models

import (
	"encoding/json"
	"fmt"
)

// EdgePair is one (source, target) station pair of a route response. On the
// wire it is a two element array: [12, 13].
type EdgePair struct {
	Source StationID
	Target StationID
}

func (p *EdgePair) UnmarshalJSON(b []byte) error {
	var raw []StationID
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("edge pair: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("edge pair: expected 2 station ids, got %d", len(raw))
	}
	p.Source, p.Target = raw[0], raw[1]
	return nil
}

func (p EdgePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]StationID{p.Source, p.Target})
}

// RouteData is the payload of a route-service response. Itinerary and Time
// may be absent on spanning forest responses.
type RouteData struct {
	Itinerary []string   `json:"itineraire,omitempty"`
	Pairs     []EdgePair `json:"stations"`
	Time      *float64   `json:"temps,omitempty"`
}

// RouteEnvelope wraps RouteData. A nil Data means the envelope is missing.
type RouteEnvelope struct {
	Data *RouteData `json:"data"`
}
