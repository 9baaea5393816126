package cliconfig

import (
	"os"
	"strconv"
)

// ApplyEnv overlays DGADETECT_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("DGADETECT_MODEL"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("DGADETECT_DATA"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("DGADETECT_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("DGADETECT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}
