// Package config loads exploration tuning parameters. The schema uses
// pointer-typed optional fields so a JSON file only has to name the
// values it overrides; everything else comes from the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExploreConfig is the root tuning document for an exploration run.
type ExploreConfig struct {
	Dims *int `json:"dims,omitempty"`

	// Exploration params
	JumpDistance      *float64 `json:"jump_distance,omitempty"`
	Margin            *float64 `json:"margin,omitempty"`
	MaxBoundaryPoints *int     `json:"max_boundary_points,omitempty"`
	MaxSamples        *int     `json:"max_samples,omitempty"`

	// Adherer params
	Adherer           *string  `json:"adherer,omitempty"` // "const" or "bsearch"
	DeltaAngleDeg     *float64 `json:"delta_angle_deg,omitempty"`
	MaxRotationDeg    *float64 `json:"max_rotation_deg,omitempty"`
	InitAngleDeg      *float64 `json:"init_angle_deg,omitempty"`
	BinarySearchDepth *int     `json:"binary_search_depth,omitempty"`

	// Global search params
	GlobalSearchBudget *int   `json:"global_search_budget,omitempty"`
	Seed               *int64 `json:"seed,omitempty"`

	// Output params
	DatabasePath *string `json:"database_path,omitempty"`
	PlotPath     *string `json:"plot_path,omitempty"`
	ReportPath   *string `json:"report_path,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// DefaultExploreConfig returns the canonical defaults: a unit-box sphere
// style exploration at jump distance 0.05.
func DefaultExploreConfig() *ExploreConfig {
	return &ExploreConfig{
		Dims:               ptrInt(3),
		JumpDistance:       ptrFloat64(0.05),
		Margin:             ptrFloat64(0.045),
		MaxBoundaryPoints:  ptrInt(1000),
		MaxSamples:         ptrInt(100000),
		Adherer:            ptrString("const"),
		DeltaAngleDeg:      ptrFloat64(15),
		MaxRotationDeg:     ptrFloat64(180),
		InitAngleDeg:       ptrFloat64(90),
		BinarySearchDepth:  ptrInt(6),
		GlobalSearchBudget: ptrInt(1000),
		Seed:               ptrInt64(1),
	}
}

// LoadExploreConfig reads path and overlays it onto the defaults. An
// empty path returns the defaults untouched; a path naming a file that
// does not exist is an error.
func LoadExploreConfig(path string) (*ExploreConfig, error) {
	cfg := DefaultExploreConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	overlay := &ExploreConfig{}
	if err := json.Unmarshal(data, overlay); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Merge(overlay)
	return cfg, nil
}

// Merge copies every set field of other over c.
func (c *ExploreConfig) Merge(other *ExploreConfig) {
	if other == nil {
		return
	}
	if other.Dims != nil {
		c.Dims = other.Dims
	}
	if other.JumpDistance != nil {
		c.JumpDistance = other.JumpDistance
	}
	if other.Margin != nil {
		c.Margin = other.Margin
	}
	if other.MaxBoundaryPoints != nil {
		c.MaxBoundaryPoints = other.MaxBoundaryPoints
	}
	if other.MaxSamples != nil {
		c.MaxSamples = other.MaxSamples
	}
	if other.Adherer != nil {
		c.Adherer = other.Adherer
	}
	if other.DeltaAngleDeg != nil {
		c.DeltaAngleDeg = other.DeltaAngleDeg
	}
	if other.MaxRotationDeg != nil {
		c.MaxRotationDeg = other.MaxRotationDeg
	}
	if other.InitAngleDeg != nil {
		c.InitAngleDeg = other.InitAngleDeg
	}
	if other.BinarySearchDepth != nil {
		c.BinarySearchDepth = other.BinarySearchDepth
	}
	if other.GlobalSearchBudget != nil {
		c.GlobalSearchBudget = other.GlobalSearchBudget
	}
	if other.Seed != nil {
		c.Seed = other.Seed
	}
	if other.DatabasePath != nil {
		c.DatabasePath = other.DatabasePath
	}
	if other.PlotPath != nil {
		c.PlotPath = other.PlotPath
	}
	if other.ReportPath != nil {
		c.ReportPath = other.ReportPath
	}
}

// Validate sanity-checks the merged configuration.
func (c *ExploreConfig) Validate() error {
	if c.Dims == nil || *c.Dims < 2 {
		return fmt.Errorf("dims must be at least 2")
	}
	if c.JumpDistance == nil || *c.JumpDistance <= 0 {
		return fmt.Errorf("jump_distance must be positive")
	}
	if c.Margin == nil || *c.Margin <= 0 || *c.Margin >= *c.JumpDistance {
		return fmt.Errorf("margin must fall in (0, jump_distance)")
	}
	if c.Adherer == nil || (*c.Adherer != "const" && *c.Adherer != "bsearch") {
		return fmt.Errorf("adherer must be \"const\" or \"bsearch\"")
	}
	return nil
}
