package analysis

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/EhsanKA/raspr/pkg/estimator"
)

// DefaultWindow is applied when a config file omits the window length. It
// is a file-format default only; the engine itself takes the window length
// from Options.
const DefaultWindow = 30 * time.Second

// FileConfig is the YAML run configuration. Fields map 1:1 to the config
// file; zero values fall back to defaults on load.
type FileConfig struct {
	// WindowSeconds is the analysis window length in seconds.
	WindowSeconds float64 `yaml:"window_seconds"`

	// Methods lists the estimation methods to run (empty = all).
	Methods []string `yaml:"methods"`

	// Details keeps per-method diagnostics in the report.
	Details bool `yaml:"details"`

	// Summary adds per-window cross-method statistics.
	Summary bool `yaml:"summary"`

	// EMA is the smoothing factor for reported series; 0 disables.
	EMA float64 `yaml:"ema"`

	// Constants overrides the physiological constants; zero fields keep
	// the built-in defaults.
	Constants ConstantsConfig `yaml:"constants"`
}

// ConstantsConfig mirrors estimator.Config for YAML use.
type ConstantsConfig struct {
	BRMin      float64 `yaml:"br_min"`
	BRMax      float64 `yaml:"br_max"`
	VLFLow     float64 `yaml:"vlf_low_hz"`
	LFLow      float64 `yaml:"lf_low_hz"`
	LFHigh     float64 `yaml:"lf_high_hz"`
	HFLow      float64 `yaml:"hf_low_hz"`
	HFHigh     float64 `yaml:"hf_high_hz"`
	RMSSDLow   float64 `yaml:"rmssd_low_ms"`
	RMSSDHigh  float64 `yaml:"rmssd_high_ms"`
	SampleRate float64 `yaml:"sample_rate_hz"`
	SegmentLen int     `yaml:"segment_len"`
	OutlierMAD float64 `yaml:"outlier_mad"`
}

// EstimatorConfig converts the YAML overrides into an estimator.Config.
func (c ConstantsConfig) EstimatorConfig() *estimator.Config {
	return &estimator.Config{
		BRMin:      c.BRMin,
		BRMax:      c.BRMax,
		VLFLow:     c.VLFLow,
		LFLow:      c.LFLow,
		LFHigh:     c.LFHigh,
		HFLow:      c.HFLow,
		HFHigh:     c.HFHigh,
		RMSSDLow:   c.RMSSDLow,
		RMSSDHigh:  c.RMSSDHigh,
		SampleRate: c.SampleRate,
		SegmentLen: c.SegmentLen,
		OutlierMAD: c.OutlierMAD,
	}
}

// Window converts the configured seconds to a duration, applying
// DefaultWindow when unset.
func (c *FileConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return DefaultWindow
	}
	return time.Duration(c.WindowSeconds * float64(time.Second))
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.EMA < 0 || cfg.EMA > 1 {
		return nil, fmt.Errorf("config: ema must be in [0,1], got %v", cfg.EMA)
	}
	if cfg.WindowSeconds < 0 {
		return nil, fmt.Errorf("config: window_seconds must be >= 0, got %v", cfg.WindowSeconds)
	}
	return &cfg, nil
}
