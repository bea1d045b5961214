// Package appconf holds the server configuration and reads it from an
// optional TOML file.
package appconf

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all the configuration settings of the server.
type Config struct {
	Port     int
	Env      Environment
	ApiKeys  []string
	LogLevel string

	// RateLimit is the sustained requests per second allowed per client,
	// RateBurst the burst size. A zero RateLimit disables limiting.
	RateLimit float64
	RateBurst int

	NetworkSource   string
	PositionsSource string
	RefreshInterval time.Duration

	RouteServiceURL  string
	ShortestPathPath string
	ForestPath       string
	RequestForm      string
	RouteTimeout     time.Duration

	MaxSessions int
	SessionTTL  time.Duration

	MapHeight float64
}

func Default() Config {
	return Config{
		Port:             4000,
		Env:              Development,
		LogLevel:         "info",
		RateLimit:        20,
		RateBurst:        40,
		NetworkSource:    "data/network.json",
		PositionsSource:  "data/positions.json",
		RouteServiceURL:  "http://127.0.0.1:5000",
		ShortestPathPath: "/dijkstra",
		ForestPath:       "/kruskal",
		RequestForm:      "query",
		MaxSessions:      1000,
		SessionTTL:       30 * time.Minute,
		MapHeight:        1000,
	}
}

// Duration reads TOML strings such as "30s" or "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// File is the layout of the TOML configuration file. Every key is optional.
type File struct {
	Server struct {
		Port      int      `toml:"port"`
		Env       string   `toml:"env"`
		ApiKeys   []string `toml:"api_keys"`
		LogLevel  string   `toml:"log_level"`
		RateLimit float64  `toml:"rate_limit"`
		RateBurst int      `toml:"rate_burst"`
	} `toml:"server"`

	Data struct {
		Network   string   `toml:"network"`
		Positions string   `toml:"positions"`
		Refresh   Duration `toml:"refresh"`
	} `toml:"data"`

	Routing struct {
		BaseURL      string   `toml:"base_url"`
		ShortestPath string   `toml:"shortest_path"`
		Forest       string   `toml:"forest"`
		Form         string   `toml:"form"`
		Timeout      Duration `toml:"timeout"`
	} `toml:"routing"`

	Sessions struct {
		Max int      `toml:"max"`
		TTL Duration `toml:"ttl"`
	} `toml:"sessions"`

	Map struct {
		Height float64 `toml:"height"`
	} `toml:"map"`
}

// LoadFile reads a TOML file and applies the keys it sets on top of cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}

	f.apply(cfg)
	return nil
}

func (f *File) apply(cfg *Config) {
	setInt(&cfg.Port, f.Server.Port)
	if f.Server.Env != "" {
		cfg.Env = EnvFlagToEnvironment(f.Server.Env)
	}
	if len(f.Server.ApiKeys) > 0 {
		cfg.ApiKeys = f.Server.ApiKeys
	}
	setString(&cfg.LogLevel, f.Server.LogLevel)
	if f.Server.RateLimit > 0 {
		cfg.RateLimit = f.Server.RateLimit
	}
	setInt(&cfg.RateBurst, f.Server.RateBurst)

	setString(&cfg.NetworkSource, f.Data.Network)
	setString(&cfg.PositionsSource, f.Data.Positions)
	setDuration(&cfg.RefreshInterval, f.Data.Refresh)

	setString(&cfg.RouteServiceURL, f.Routing.BaseURL)
	setString(&cfg.ShortestPathPath, f.Routing.ShortestPath)
	setString(&cfg.ForestPath, f.Routing.Forest)
	setString(&cfg.RequestForm, f.Routing.Form)
	setDuration(&cfg.RouteTimeout, f.Routing.Timeout)

	setInt(&cfg.MaxSessions, f.Sessions.Max)
	setDuration(&cfg.SessionTTL, f.Sessions.TTL)

	if f.Map.Height > 0 {
		cfg.MapHeight = f.Map.Height
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
