// Package config provides configuration loading and validation for the
// commander. It uses koanf to merge environment variables with optional
// file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default values applied when neither the environment nor the config
// file provides one.
const (
	DefaultEnv                = "development"
	DefaultPort               = 8080
	DefaultPollInterval       = 2 * time.Second
	DefaultRoomCapacity       = 1
	DefaultUnassignedRoomName = "Unassigned"
	DefaultTimingsPath        = "timings.csv"
	DefaultStatePath          = "state.csv"
)

// Configuration validation errors.
var (
	ErrMissingLiveKitURL       = errors.New("LIVEKIT_URL is required")
	ErrMissingLiveKitAPIKey    = errors.New("LIVEKIT_API_KEY is required")
	ErrMissingLiveKitAPISecret = errors.New("LIVEKIT_API_SECRET is required")
	ErrInvalidPort             = errors.New("port must be a valid integer between 1 and 65535")
	ErrInvalidPollInterval     = errors.New("poll interval must be a positive duration")
	ErrInvalidRoomCapacity     = errors.New("room capacity must be a positive integer")
)

// Config holds all configuration values for the commander.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// LiveKit (call backend)
	LiveKitURL       string `koanf:"livekit_url"`
	LiveKitAPIKey    string `koanf:"livekit_api_key"`
	LiveKitAPISecret string `koanf:"livekit_api_secret"`

	// Polling and allocation
	PollInterval time.Duration `koanf:"poll_interval"`
	RoomCapacity int           `koanf:"room_capacity"`

	// Room naming
	UnassignedRoomName string `koanf:"unassigned_room_name"`

	// Log file paths
	TimingsPath string `koanf:"timings_path"`
	StatePath   string `koanf:"state_path"`
}

// Load reads configuration from an optional YAML file and the
// environment, with environment variables taking precedence. All
// validation errors are collected and returned together so operators
// see every problem at once.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	capacity, capErr := getEnvIntOrDefault("ROOM_CAPACITY", k.Int("room_capacity"), DefaultRoomCapacity)
	if capErr != nil {
		loadErrs = append(loadErrs, capErr)
	}

	interval, intervalErr := getEnvDurationOrDefault("POLL_INTERVAL", k.Duration("poll_interval"), DefaultPollInterval)
	if intervalErr != nil {
		loadErrs = append(loadErrs, intervalErr)
	}

	cfg := &Config{
		Port:               port,
		Env:                getEnvOrDefaultMulti([]string{"OFFICEHOURS_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		LiveKitURL:         getEnvOrKoanf("LIVEKIT_URL", k, "livekit_url"),
		LiveKitAPIKey:      getEnvOrKoanf("LIVEKIT_API_KEY", k, "livekit_api_key"),
		LiveKitAPISecret:   getEnvOrKoanf("LIVEKIT_API_SECRET", k, "livekit_api_secret"),
		PollInterval:       interval,
		RoomCapacity:       capacity,
		UnassignedRoomName: getEnvOrDefault("UNASSIGNED_ROOM_NAME", k.String("unassigned_room_name"), DefaultUnassignedRoomName),
		TimingsPath:        getEnvOrDefault("TIMINGS_PATH", k.String("timings_path"), DefaultTimingsPath),
		StatePath:          getEnvOrDefault("STATE_PATH", k.String("state_path"), DefaultStatePath),
	}

	loadErrs = append(loadErrs, cfg.Validate()...)
	if len(loadErrs) > 0 {
		return nil, loadErrs
	}
	return cfg, nil
}

// Validate checks that all required configuration values are present
// and in range. Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.LiveKitURL == "" {
		errs = append(errs, ErrMissingLiveKitURL)
	}
	if c.LiveKitAPIKey == "" {
		errs = append(errs, ErrMissingLiveKitAPIKey)
	}
	if c.LiveKitAPISecret == "" {
		errs = append(errs, ErrMissingLiveKitAPISecret)
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.PollInterval <= 0 {
		errs = append(errs, ErrInvalidPollInterval)
	}
	if c.RoomCapacity < 1 {
		errs = append(errs, ErrInvalidRoomCapacity)
	}
	return errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvDurationOrDefault returns the environment variable as a duration if set,
// otherwise the koanf value, or default. Returns an error if the environment
// variable is set but cannot be parsed as a Go duration string (e.g. "2s").
func getEnvDurationOrDefault(envKey string, koanfVal time.Duration, defaultVal time.Duration) (time.Duration, error) {
	if val := os.Getenv(envKey); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid duration: %w", envKey, err)
		}
		return d, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}
