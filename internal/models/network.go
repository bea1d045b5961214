package models

// Station is a raw station record from the network document.
type Station struct {
	ID       StationID `json:"id"`
	Name     string    `json:"name"`
	Line     LineID    `json:"ligne"`
	Terminus Flag      `json:"terminus"`
	PosX     *float64  `json:"posX,omitempty"`
	PosY     *float64  `json:"posY,omitempty"`
}

// HasPosition reports whether both planar coordinates are present.
func (s Station) HasPosition() bool {
	return s.PosX != nil && s.PosY != nil
}

// Edge is a raw connection between two stations, with traversal time in seconds.
type Edge struct {
	Start StationID `json:"start"`
	End   StationID `json:"end"`
	Time  int       `json:"time"`
}

// Network is the network document: stations and the edges between them.
type Network struct {
	Stations []Station `json:"stations"`
	Edges    []Edge    `json:"edges"`
}

// Position is one entry of the positions document used by the map overlay.
type Position struct {
	StationName string  `json:"nom_station"`
	PosX        float64 `json:"posX"`
	PosY        float64 `json:"posY"`
}

// PositionsDocument is the standalone positions document.
type PositionsDocument struct {
	Positions []Position `json:"positions"`
}
