package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"linedash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Dashboard DashboardConfig
	Session   SessionConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// DataConfig names the two workbooks
type DataConfig struct {
	LinesFile    string
	StationsFile string
	SheetName    string // empty reads the first sheet of each workbook
}

// DashboardConfig switches optional page sections
type DashboardConfig struct {
	StationSectionEnabled bool
	DataGridEnabled       bool
	TopN                  int
	GridPageSize          int
}

// SessionConfig controls per-visitor filter state
type SessionConfig struct {
	TTL        time.Duration
	CookieName string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Default file names of the two exports the dashboard reads.
const (
	DefaultLinesFile    = "TELEFONIA_MOVEL.xlsx"
	DefaultStationsFile = "UNIDADES_RODOVIA_SEM_USO.xlsx"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Dashboard: *loadDashboardConfig(),
		Session:   *loadSessionConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		LinesFile:    getEnvOrDefault("LINES_FILE", DefaultLinesFile),
		StationsFile: getEnvOrDefault("STATIONS_FILE", DefaultStationsFile),
		SheetName:    getEnvOrDefault("SHEET_NAME", ""),
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		StationSectionEnabled: getEnvBoolOrDefault("STATION_SECTION_ENABLED", true),
		DataGridEnabled:       getEnvBoolOrDefault("DATA_GRID_ENABLED", false),
		TopN:                  getEnvIntOrDefault("TOP_N", 20),
		GridPageSize:          getEnvIntOrDefault("GRID_PAGE_SIZE", 25),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL:        getEnvDurationOrDefault("SESSION_TTL", 12*time.Hour),
		CookieName: getEnvOrDefault("SESSION_COOKIE", "linedash_session"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	for name, port := range map[string]string{"PORT": config.Server.Port, "API_PORT": config.Server.APIPort} {
		if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
			return errors.ConfigInvalid(fmt.Sprintf("%s must be a TCP port, got %q", name, port))
		}
	}
	if config.Data.LinesFile == "" || config.Data.StationsFile == "" {
		return errors.ConfigInvalid("dataset file names cannot be empty")
	}
	if config.Dashboard.TopN <= 0 {
		return errors.ConfigInvalid("TOP_N must be positive")
	}
	if config.Dashboard.GridPageSize <= 0 {
		return errors.ConfigInvalid("GRID_PAGE_SIZE must be positive")
	}
	if config.Session.CookieName == "" {
		return errors.ConfigInvalid("SESSION_COOKIE cannot be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
