package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nexusfield/missionpack/internal/scoring"
	"github.com/nexusfield/missionpack/internal/solver"
)

const (
	defaultBatchConcurrency = 4
	defaultRateLimitRPS     = 0.0
	defaultRateLimitBurst   = 0
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Scoring        scoring.Weights
	Solver         solver.Options
	Concurrency    int
	RateLimitRPS   float64
	RateLimitBurst int
	Debug          bool
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Scoring *scoring.Weights `yaml:"scoring"`
	Solver  yamlSolver       `yaml:"solver"`
	Batch   yamlBatch        `yaml:"batch"`
	Debug   bool             `yaml:"debug"`
}

// yamlSolver represents the solver tuning section in YAML.
type yamlSolver struct {
	ExactPoolLimit     int `yaml:"exact_pool_limit"`
	WeightBuckets      int `yaml:"weight_buckets"`
	SwapBudget         int `yaml:"swap_budget"`
	HeuristicPoolLimit int `yaml:"heuristic_pool_limit"`
}

// yamlBatch represents the batch runner section in YAML.
type yamlBatch struct {
	Concurrency    int     `yaml:"concurrency"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	ExactPoolLimit *int
	WeightBuckets  *int
	SwapBudget     *int
	Concurrency    *int
	RateLimitRPS   *float64
	RateLimitBurst *int
	Debug          *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Scoring:        scoring.DefaultWeights(),
		Solver:         solver.DefaultOptions(),
		Concurrency:    defaultBatchConcurrency,
		RateLimitRPS:   defaultRateLimitRPS,
		RateLimitBurst: defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Scoring != nil {
		cfg.Scoring = *yamlCfg.Scoring
	}
	if yamlCfg.Solver.ExactPoolLimit > 0 {
		cfg.Solver.ExactPoolLimit = yamlCfg.Solver.ExactPoolLimit
	}
	if yamlCfg.Solver.WeightBuckets > 0 {
		cfg.Solver.WeightBuckets = yamlCfg.Solver.WeightBuckets
	}
	if yamlCfg.Solver.SwapBudget > 0 {
		cfg.Solver.SwapBudget = yamlCfg.Solver.SwapBudget
	}
	if yamlCfg.Solver.HeuristicPoolLimit > 0 {
		cfg.Solver.HeuristicPoolLimit = yamlCfg.Solver.HeuristicPoolLimit
	}
	if yamlCfg.Batch.Concurrency > 0 {
		cfg.Concurrency = yamlCfg.Batch.Concurrency
	}
	if yamlCfg.Batch.RateLimitRPS > 0 {
		cfg.RateLimitRPS = yamlCfg.Batch.RateLimitRPS
	}
	if yamlCfg.Batch.RateLimitBurst > 0 {
		cfg.RateLimitBurst = yamlCfg.Batch.RateLimitBurst
	}
	cfg.Debug = yamlCfg.Debug
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("MISSIONPACK_EXACT_POOL_LIMIT")); v != "" {
		if value, err := strconv.Atoi(v); err == nil && value > 0 {
			cfg.Solver.ExactPoolLimit = value
		}
	}
	if v := strings.TrimSpace(os.Getenv("MISSIONPACK_WEIGHT_BUCKETS")); v != "" {
		if value, err := strconv.Atoi(v); err == nil && value > 0 {
			cfg.Solver.WeightBuckets = value
		}
	}
	if v := strings.TrimSpace(os.Getenv("MISSIONPACK_SWAP_BUDGET")); v != "" {
		if value, err := strconv.Atoi(v); err == nil && value > 0 {
			cfg.Solver.SwapBudget = value
		}
	}
	if v := strings.TrimSpace(os.Getenv("MISSIONPACK_BATCH_CONCURRENCY")); v != "" {
		if value, err := strconv.Atoi(v); err == nil && value > 0 {
			cfg.Concurrency = value
		}
	}
	if v := strings.TrimSpace(os.Getenv("MISSIONPACK_RATE_LIMIT_RPS")); v != "" {
		if value, err := strconv.ParseFloat(v, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}
	if v := strings.TrimSpace(os.Getenv("MISSIONPACK_RATE_LIMIT_BURST")); v != "" {
		if value, err := strconv.Atoi(v); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
	if v := strings.TrimSpace(os.Getenv("MISSIONPACK_DEBUG")); v != "" {
		if value, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.ExactPoolLimit != nil && *overrides.ExactPoolLimit > 0 {
		cfg.Solver.ExactPoolLimit = *overrides.ExactPoolLimit
	}
	if overrides.WeightBuckets != nil && *overrides.WeightBuckets > 0 {
		cfg.Solver.WeightBuckets = *overrides.WeightBuckets
	}
	if overrides.SwapBudget != nil && *overrides.SwapBudget > 0 {
		cfg.Solver.SwapBudget = *overrides.SwapBudget
	}
	if overrides.Concurrency != nil && *overrides.Concurrency > 0 {
		cfg.Concurrency = *overrides.Concurrency
	}
	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}
	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
	if overrides.Debug != nil {
		cfg.Debug = *overrides.Debug
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if err := cfg.Scoring.Validate(); err != nil {
		return err
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("batch concurrency must be positive")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit burst must be >= 0")
	}
	return nil
}
