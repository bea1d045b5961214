package network

import (
	"strings"

	"metroview.org/internal/models"
)

// normalizeName folds a station name so that network names and position
// names ("Place@des@Fêtes") compare equal.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(name, "@", " ")), " "))
}

// JoinPositions returns a copy of stations where every station without
// coordinates takes them from the position with the same normalized name.
// Stations that already have coordinates are left as is.
func JoinPositions(stations []models.Station, positions []models.Position) ([]models.Station, int) {
	byName := make(map[string]models.Position, len(positions))
	for _, pos := range positions {
		key := normalizeName(pos.StationName)
		if _, seen := byName[key]; !seen {
			byName[key] = pos
		}
	}

	joined := make([]models.Station, len(stations))
	copy(joined, stations)

	filled := 0
	for i := range joined {
		if joined[i].HasPosition() {
			continue
		}
		pos, ok := byName[normalizeName(joined[i].Name)]
		if !ok {
			continue
		}
		x, y := pos.PosX, pos.PosY
		joined[i].PosX, joined[i].PosY = &x, &y
		filled++
	}
	return joined, filled
}
