package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"cucumeter/internal/segment"
	"cucumeter/internal/sheet"
	"cucumeter/internal/skeleton"
)

// Config bundles the tunables of every pipeline stage. All thresholds are
// configuration, not hard invariants.
type Config struct {
	Sheet   sheet.Params   `json:"sheet"`
	Segment segment.Params `json:"segment"`

	// UseSkeleton enables skeleton-based curvilinear length and curvature.
	// When disabled, measurement falls back to the rotated bounding box.
	UseSkeleton bool `json:"use_skeleton"`

	// Thinning selects the skeletonization algorithm.
	Thinning skeleton.Algorithm `json:"thinning"`

	// CurvatureStep is the skeleton sampling interval for the mean turning
	// angle; zero selects the package default.
	CurvatureStep int `json:"curvature_step"`
}

// DefaultConfig returns the default pipeline configuration: A4 sheet,
// skeleton-based measurement with morphological thinning.
func DefaultConfig() Config {
	return Config{
		Sheet:       sheet.DefaultParams(),
		Segment:     segment.DefaultParams(),
		UseSkeleton: true,
		Thinning:    skeleton.Morphological,
	}
}

// LoadConfig reads a configuration from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
