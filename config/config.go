// Package config provides environment-based configuration for unnet.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultDataDir  = "data"
	defaultEdgeFile = "edges.csv"
)

// Config holds the settings shared by every unnet command.
type Config struct {
	// Corpus root.
	DataDir string

	// Edge list location.
	EdgeFile string

	// Files parsed concurrently.
	Workers int

	// Abort analysis on the first malformed edge line.
	Strict bool

	// Tolerate common XML syntax errors.
	PermissiveXML bool

	LogLevel  string
	LogFormat string

	// Connection string of the database used by the export command.
	DBDSN string
}

// Load reads an optional .env file from the working directory followed by
// the UNNET_* environment variables. Unset or unparsable variables fall back
// to their defaults.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:       getEnv("UNNET_DATA_DIR", defaultDataDir),
		Workers:       getEnvAsInt("UNNET_WORKERS", 1),
		Strict:        getEnvAsBool("UNNET_STRICT", false),
		PermissiveXML: getEnvAsBool("UNNET_PERMISSIVE_XML", false),
		LogLevel:      getEnv("UNNET_LOG_LEVEL", "info"),
		LogFormat:     getEnv("UNNET_LOG_FORMAT", "text"),
		DBDSN:         getEnv("UNNET_DB_DSN", ""),
	}
	cfg.EdgeFile = getEnv("UNNET_EDGE_FILE", filepath.Join(cfg.DataDir, defaultEdgeFile))
	return cfg
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
