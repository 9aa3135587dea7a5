package server

import (
	"os"
	"strconv"
)

// Config represents the configuration for the HTTP server
type Config struct {
	// Address the server listens on
	Addr string
	// Number of missions assigned per day
	MissionsPerDay int
	// Number of questions in the monthly test
	TestSize int
}

// DefaultConfig returns the default server configuration, with environment
// overrides for PORT and MISSIONS_PER_DAY
func DefaultConfig() Config {
	cfg := Config{
		Addr:           ":10000",
		MissionsPerDay: 3,
		TestSize:       10,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if raw := os.Getenv("MISSIONS_PER_DAY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.MissionsPerDay = n
		}
	}

	return cfg
}
