// Package config holds operator-level configuration for a veil process.
// Everything here is set by whoever deploys the service, via env vars
// (VEIL_*) or a veil.config.yaml file; there is no per-request state. The
// engine itself keeps all run state per call, so config is read once at
// startup and treated as immutable afterwards.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the VEIL_ prefix
// (e.g. "max_body_bytes" → VEIL_MAX_BODY_BYTES) and to a YAML field in
// veil.config.yaml.
const (
	KeyPort            = "port"
	KeyCORSOrigins     = "cors_origins"
	KeyAPIKeys         = "api_keys"
	KeyGlobalRPM       = "rate_limit_rpm"
	KeyPerCallerRPM    = "rate_limit_per_caller_rpm"
	KeyMaxBodyBytes    = "max_body_bytes"
	KeySyntheticEnable = "synthetic_enabled"
	KeySyntheticSeed   = "synthetic_seed"
	KeyNEREnable       = "ner_enabled"
	KeyPatternFile     = "pattern_file"
)

// Defaults. Both capabilities default to on; they degrade on their own when
// their backing resources fail to initialize.
const (
	DefaultPort         = 8080
	DefaultGlobalRPM    = 600
	DefaultPerCallerRPM = 120
	DefaultMaxBodyBytes = 1 << 20 // 1 MiB
)

// Config holds resolved operator-level configuration for a veil process.
type Config struct {
	Port             int      // HTTP listen port
	CORSOrigins      []string // allowed CORS origins; ["*"] for any
	APIKeys          string   // comma-separated key or key:caller entries; empty = open service
	GlobalRPM        int      // total requests/minute across all callers
	PerCallerRPM     int      // per-caller requests/minute
	MaxBodyBytes     int64    // request body cap for the redact endpoints
	SyntheticEnabled bool     // synthetic value generator capability
	SyntheticSeed    uint64   // non-zero makes synthetic output deterministic
	NEREnabled       bool     // named-entity recognizer capability
	PatternFile      string   // optional recognizer override YAML
}

func init() {
	viper.SetEnvPrefix("VEIL")
	viper.AutomaticEnv()
	viper.SetDefault(KeyPort, DefaultPort)
	viper.SetDefault(KeyCORSOrigins, []string{"*"})
	viper.SetDefault(KeyGlobalRPM, DefaultGlobalRPM)
	viper.SetDefault(KeyPerCallerRPM, DefaultPerCallerRPM)
	viper.SetDefault(KeyMaxBodyBytes, DefaultMaxBodyBytes)
	viper.SetDefault(KeySyntheticEnable, true)
	viper.SetDefault(KeyNEREnable, true)
}

// Load reads configuration from Viper (which merges env vars, config file,
// and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             viper.GetInt(KeyPort),
		CORSOrigins:      viper.GetStringSlice(KeyCORSOrigins),
		APIKeys:          viper.GetString(KeyAPIKeys),
		GlobalRPM:        viper.GetInt(KeyGlobalRPM),
		PerCallerRPM:     viper.GetInt(KeyPerCallerRPM),
		MaxBodyBytes:     viper.GetInt64(KeyMaxBodyBytes),
		SyntheticEnabled: viper.GetBool(KeySyntheticEnable),
		SyntheticSeed:    viper.GetUint64(KeySyntheticSeed),
		NEREnabled:       viper.GetBool(KeyNEREnable),
		PatternFile:      viper.GetString(KeyPatternFile),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535 (got %d)", c.Port)
	}
	if c.GlobalRPM <= 0 {
		return fmt.Errorf("rate_limit_rpm must be positive")
	}
	if c.PerCallerRPM <= 0 {
		return fmt.Errorf("rate_limit_per_caller_rpm must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}

// ParseAPIKeys expands the comma-separated api_keys value into a map of
// key -> caller name. Entries are either "key" (caller "default") or
// "key:caller". An empty value yields an empty map, which the server treats
// as an open service.
func ParseAPIKeys(raw string) map[string]string {
	m := make(map[string]string)
	if raw == "" {
		return m
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		caller := "default"
		if idx := strings.Index(part, ":"); idx > 0 {
			caller = strings.TrimSpace(part[idx+1:])
			part = strings.TrimSpace(part[:idx])
		}
		m[part] = caller
	}
	return m
}
