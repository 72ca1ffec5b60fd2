package config

import (
	"os"
	"strings"
	"time"
)

// Config carries every runtime knob. All values come from the
// environment with defaults that work for local development.
type Config struct {
	Env            string
	HTTPAddr       string
	AllowedOrigins []string

	// Keepalive timing. PingInterval must stay below PongWait or idle
	// connections get reaped between probes.
	PongWait     time.Duration
	PingInterval time.Duration
	WriteWait    time.Duration

	// StatsCron is the schedule of the heartbeat log line.
	StatsCron string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Load() Config {
	return Config{
		Env:            getenv("ENV", "development"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		AllowedOrigins: splitCSV(getenv("ALLOWED_ORIGINS", "*")),
		PongWait:       getenvDuration("PONG_WAIT", 60*time.Second),
		PingInterval:   getenvDuration("PING_INTERVAL", 54*time.Second),
		WriteWait:      getenvDuration("WRITE_WAIT", 10*time.Second),
		StatsCron:      getenv("STATS_CRON", "@every 1m"),
	}
}
