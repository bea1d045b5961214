package network

import (
	"strings"
	"time"
)

// Sources tells where the network and positions documents come from. Each
// may be a local file path or an http(s) URL.
type Sources struct {
	NetworkURL   string
	PositionsURL string
	// RefreshInterval reloads URL sources periodically. Zero disables it.
	RefreshInterval time.Duration
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (s Sources) refreshable() bool {
	return s.RefreshInterval > 0 && (isRemote(s.NetworkURL) || isRemote(s.PositionsURL))
}
