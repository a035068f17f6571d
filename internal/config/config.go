// Package config loads HMR-Core's tunable constants from YAML, mirroring
// the teacher's user/project/env layered config: a user file under
// $XDG_CONFIG_HOME, an optional project file, and HMRCORE_* environment
// variables, applied in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aman-cerp/hmrcore/internal/core"
)

// FileConfig is the YAML-shaped configuration for the pipeline's tunable
// constants (§4.3, §4.4, §4.6, §4.9 of the expanded spec). All fields are
// optional; zero values mean "use the built-in default" and are never
// written over a default during merge.
type FileConfig struct {
	Version int `yaml:"version"`

	Deadlines struct {
		Total    string `yaml:"total"`
		Strategy string `yaml:"strategy"`
	} `yaml:"deadlines"`

	MaxConcurrentQueries int    `yaml:"max_concurrent_queries"`
	ScoringVersion       string `yaml:"scoring_version"`

	RankConstants map[string]float64 `yaml:"rank_constants"`
	ConsensusBeta float64            `yaml:"consensus_beta"`

	// BaseProfile maps an intent label to a strategy weight row, e.g.
	// base_profile.symbol.vector: 0.2. Rows are merged wholesale: supplying
	// any strategy for an intent replaces that intent's entire row.
	BaseProfile map[string]map[string]float64 `yaml:"base_profile"`
}

// Resolved holds the fully-merged constants, ready to build the core
// components NewCoordinator needs.
type Resolved struct {
	Config        core.CoreConfig
	RankConstants map[core.Strategy]float64
	ConsensusBeta float64
	BaseProfile   map[core.Intent]core.StrategyWeights
}

// CoordinatorOptions turns the resolved constants into the functional
// options NewCoordinator expects, so a loaded file can be applied in one
// call: after r, err := config.Load(dir) succeeds,
// core.NewCoordinator(adapters, r.CoordinatorOptions()...).
func (r *Resolved) CoordinatorOptions() []core.CoordinatorOption {
	fusion := core.NewFusionEngine()
	fusion.RankConstants = r.RankConstants

	consensus := core.NewConsensusBooster()
	consensus.Beta = r.ConsensusBeta

	weights := core.NewWeightResolver()
	weights.BaseProfile = r.BaseProfile

	return []core.CoordinatorOption{
		core.WithConfig(r.Config),
		core.WithFusionEngine(fusion),
		core.WithConsensusBooster(consensus),
		core.WithWeightResolver(weights),
	}
}

func defaultResolved() *Resolved {
	return &Resolved{
		Config:        core.DefaultCoreConfig(),
		RankConstants: core.NewFusionEngine().RankConstants,
		ConsensusBeta: core.NewConsensusBooster().Beta,
		BaseProfile:   core.NewWeightResolver().BaseProfile,
	}
}

// xdgConfigPath returns $XDG_CONFIG_HOME/hmr-core/config.yaml, falling back
// to ~/.config/hmr-core/config.yaml.
func xdgConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hmr-core", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "hmr-core", "config.yaml")
	}
	return filepath.Join(home, ".config", "hmr-core", "config.yaml")
}

// Load applies, in increasing precedence: built-in defaults, the user/global
// config ($XDG_CONFIG_HOME/hmr-core/config.yaml), a project config
// (dir/.hmrcore.yaml), and HMRCORE_* environment variables.
func Load(dir string) (*Resolved, error) {
	resolved := defaultResolved()

	if path := xdgConfigPath(); fileExists(path) {
		fc, err := loadYAML(path)
		if err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
		if err := resolved.merge(fc); err != nil {
			return nil, fmt.Errorf("merge user config: %w", err)
		}
	}

	projectPath := filepath.Join(dir, ".hmrcore.yaml")
	if fileExists(projectPath) {
		fc, err := loadYAML(projectPath)
		if err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
		if err := resolved.merge(fc); err != nil {
			return nil, fmt.Errorf("merge project config: %w", err)
		}
	}

	resolved.applyEnvOverrides()

	if err := resolved.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return resolved, nil
}

func loadYAML(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

func (r *Resolved) merge(fc *FileConfig) error {
	if fc.Deadlines.Total != "" {
		d, err := time.ParseDuration(fc.Deadlines.Total)
		if err != nil {
			return fmt.Errorf("deadlines.total: %w", err)
		}
		r.Config.TotalDeadline = d
	}
	if fc.Deadlines.Strategy != "" {
		d, err := time.ParseDuration(fc.Deadlines.Strategy)
		if err != nil {
			return fmt.Errorf("deadlines.strategy: %w", err)
		}
		r.Config.StrategyDeadline = d
	}
	if fc.MaxConcurrentQueries != 0 {
		r.Config.MaxConcurrentQueries = fc.MaxConcurrentQueries
	}
	if fc.ScoringVersion != "" {
		r.Config.ScoringVersion = fc.ScoringVersion
	}
	if fc.ConsensusBeta != 0 {
		r.ConsensusBeta = fc.ConsensusBeta
	}
	for name, v := range fc.RankConstants {
		r.RankConstants[core.Strategy(name)] = v
	}
	for intentName, row := range fc.BaseProfile {
		weights := make(core.StrategyWeights, len(row))
		for strategyName, w := range row {
			weights[core.Strategy(strategyName)] = w
		}
		r.BaseProfile[core.Intent(intentName)] = weights
	}
	return nil
}

// applyEnvOverrides applies HMRCORE_* environment variable overrides, the
// highest-precedence layer.
func (r *Resolved) applyEnvOverrides() {
	if v := os.Getenv("HMRCORE_TOTAL_DEADLINE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			r.Config.TotalDeadline = d
		}
	}
	if v := os.Getenv("HMRCORE_STRATEGY_DEADLINE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			r.Config.StrategyDeadline = d
		}
	}
	if v := os.Getenv("HMRCORE_MAX_CONCURRENT_QUERIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.Config.MaxConcurrentQueries = n
		}
	}
	if v := os.Getenv("HMRCORE_SCORING_VERSION"); v != "" {
		r.Config.ScoringVersion = v
	}
	if v := os.Getenv("HMRCORE_CONSENSUS_BETA"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			r.ConsensusBeta = f
		}
	}
}

func (r *Resolved) validate() error {
	if r.Config.TotalDeadline <= 0 {
		return fmt.Errorf("deadlines.total must be positive, got %s", r.Config.TotalDeadline)
	}
	if r.Config.StrategyDeadline <= 0 {
		return fmt.Errorf("deadlines.strategy must be positive, got %s", r.Config.StrategyDeadline)
	}
	if r.Config.StrategyDeadline > r.Config.TotalDeadline {
		return fmt.Errorf("deadlines.strategy (%s) must not exceed deadlines.total (%s)",
			r.Config.StrategyDeadline, r.Config.TotalDeadline)
	}
	for intent, row := range r.BaseProfile {
		var sum float64
		for _, w := range row {
			sum += w
		}
		if sum < 0.99 || sum > 1.01 {
			return fmt.Errorf("base_profile.%s weights must sum to ~1.0, got %.3f", intent, sum)
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
