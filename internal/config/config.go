package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level settings plus the immutable region table.
type Config struct {
	Port string

	// RegionsPath optionally points at a JSON file overriding the built-in
	// region table.
	RegionsPath string

	// EvalWorkers caps the surface evaluator worker pool. 0 means one
	// worker per CPU.
	EvalWorkers int

	Regions *RegionSet
}

// Load reads configuration from environment with sensible defaults and
// builds the region table once for the lifetime of the process.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] no .env file loaded: %v", err)
	}

	cfg := &Config{
		Port:        getenvDefault("PORT", ":8080"),
		RegionsPath: os.Getenv("REGIONS_PATH"),
		EvalWorkers: getenvInt("EVAL_WORKERS", 0),
	}

	if cfg.RegionsPath != "" {
		regions, err := LoadRegions(cfg.RegionsPath)
		if err != nil {
			return nil, fmt.Errorf("load regions from %s: %w", cfg.RegionsPath, err)
		}
		cfg.Regions = regions
		log.Printf("[Config] loaded %d regions from %s", len(regions.Names()), cfg.RegionsPath)
	} else {
		regions, err := DefaultRegions()
		if err != nil {
			return nil, err
		}
		cfg.Regions = regions
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
