package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"metroview.org/internal/appconf"
)

// parseConfig reads the command line. A TOML file named by -config is
// applied first; flags given explicitly on the command line win over it.
func parseConfig(args []string, output io.Writer) (appconf.Config, error) {
	cfg := appconf.Default()

	var configPath, env, apiKeysFlag string

	fs := flag.NewFlagSet("metroview", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	fs.StringVar(&env, "env", cfg.Env.String(), "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", "", "Comma separated API keys; empty disables key checks")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second per client, 0 disables limiting")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "Burst size per client")
	fs.StringVar(&cfg.NetworkSource, "network", cfg.NetworkSource, "Network document, file path or URL")
	fs.StringVar(&cfg.PositionsSource, "positions", cfg.PositionsSource, "Positions document, file path or URL")
	fs.DurationVar(&cfg.RefreshInterval, "refresh", cfg.RefreshInterval, "Reload interval for URL sources, 0 disables reloads")
	fs.StringVar(&cfg.RouteServiceURL, "route-service", cfg.RouteServiceURL, "Base URL of the route service")
	fs.StringVar(&cfg.ShortestPathPath, "shortest-path-path", cfg.ShortestPathPath, "Shortest path endpoint of the route service")
	fs.StringVar(&cfg.ForestPath, "forest-path", cfg.ForestPath, "Spanning forest endpoint of the route service")
	fs.StringVar(&cfg.RequestForm, "request-form", cfg.RequestForm, "How station ids are sent to the route service (query|body)")
	fs.DurationVar(&cfg.RouteTimeout, "route-timeout", cfg.RouteTimeout, "Timeout of route service calls, 0 for none")
	fs.IntVar(&cfg.MaxSessions, "max-sessions", cfg.MaxSessions, "Maximum number of live sessions")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle time after which a session is closed")
	fs.Float64Var(&cfg.MapHeight, "map-height", cfg.MapHeight, "Height of the background map in layout units")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if configPath != "" {
		fromFile := appconf.Default()
		if err := appconf.LoadFile(configPath, &fromFile); err != nil {
			return cfg, err
		}
		flagged := cfg
		cfg = fromFile
		fs.Visit(func(f *flag.Flag) {
			overrideFromFlag(&cfg, flagged, f.Name)
		})
	}

	if isSet(fs, "env") || configPath == "" {
		cfg.Env = appconf.EnvFlagToEnvironment(env)
	}
	if isSet(fs, "api-keys") {
		cfg.ApiKeys = splitKeys(apiKeysFlag)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// overrideFromFlag copies one explicitly set flag value over the file config.
func overrideFromFlag(cfg *appconf.Config, flagged appconf.Config, name string) {
	switch name {
	case "port":
		cfg.Port = flagged.Port
	case "log-level":
		cfg.LogLevel = flagged.LogLevel
	case "rate-limit":
		cfg.RateLimit = flagged.RateLimit
	case "rate-burst":
		cfg.RateBurst = flagged.RateBurst
	case "network":
		cfg.NetworkSource = flagged.NetworkSource
	case "positions":
		cfg.PositionsSource = flagged.PositionsSource
	case "refresh":
		cfg.RefreshInterval = flagged.RefreshInterval
	case "route-service":
		cfg.RouteServiceURL = flagged.RouteServiceURL
	case "shortest-path-path":
		cfg.ShortestPathPath = flagged.ShortestPathPath
	case "forest-path":
		cfg.ForestPath = flagged.ForestPath
	case "request-form":
		cfg.RequestForm = flagged.RequestForm
	case "route-timeout":
		cfg.RouteTimeout = flagged.RouteTimeout
	case "max-sessions":
		cfg.MaxSessions = flagged.MaxSessions
	case "session-ttl":
		cfg.SessionTTL = flagged.SessionTTL
	case "map-height":
		cfg.MapHeight = flagged.MapHeight
	}
}

func splitKeys(s string) []string {
	var keys []string
	for _, key := range strings.Split(s, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
