package bench

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mushkilali/certifiable-bench/bench/timer"
)

// CBMaxSamples is the hard ceiling on MeasureIterations, and so on the
// size of each Runner's outlier-detection scratch arrays, which are sized
// to MeasureIterations.
const CBMaxSamples = 1_000_000

// Config groups every recognised benchmark option (§6's "Configuration
// defaults" table). Field names mirror spec §3/§6 exactly so the YAML
// keys below read the same as the prose.
type Config struct {
	WarmupIterations    int          `yaml:"warmup_iterations"`
	MeasureIterations   int          `yaml:"measure_iterations"`
	BatchSize           int          `yaml:"batch_size"`
	TimerSource         timer.Source `yaml:"-"`
	VerifyOutputs       bool         `yaml:"verify_outputs"`
	CollectHistogram    bool         `yaml:"collect_histogram"`
	HistogramBins       int          `yaml:"histogram_bins"`
	HistogramMinNs      int64        `yaml:"histogram_min_ns"`
	HistogramMaxNs      int64        `yaml:"histogram_max_ns"`
	MonitorEnvironment  bool         `yaml:"monitor_environment"`
	ModelPath           string       `yaml:"model_path,omitempty"`
	DataPath            string       `yaml:"data_path,omitempty"`
	GoldenPath          string       `yaml:"golden_path,omitempty"`
	OutputPath          string       `yaml:"output_path,omitempty"`
}

// ConfigDefault returns the recognised-option defaults of §6.
func ConfigDefault() Config {
	return Config{
		WarmupIterations:   100,
		MeasureIterations:  1000,
		BatchSize:          1,
		TimerSource:        timer.Auto,
		VerifyOutputs:      true,
		CollectHistogram:   false,
		HistogramBins:      100,
		HistogramMinNs:     0,
		HistogramMaxNs:     10_000_000,
		MonitorEnvironment: true,
	}
}

// ConfigValidate checks c against §3's constraints, returning
// ErrInvalidConfig (wrapped with the offending field) on the first
// violation found.
func ConfigValidate(c Config) error {
	if c.MeasureIterations <= 0 {
		return fmt.Errorf("measure_iterations must be > 0, got %d: %w", c.MeasureIterations, ErrInvalidConfig)
	}
	if c.MeasureIterations > CBMaxSamples {
		return fmt.Errorf("measure_iterations must be <= %d, got %d: %w", CBMaxSamples, c.MeasureIterations, ErrInvalidConfig)
	}
	if c.WarmupIterations < 0 {
		return fmt.Errorf("warmup_iterations must be >= 0, got %d: %w", c.WarmupIterations, ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0, got %d: %w", c.BatchSize, ErrInvalidConfig)
	}
	if c.CollectHistogram {
		if c.HistogramBins <= 0 {
			return fmt.Errorf("histogram_bins must be > 0, got %d: %w", c.HistogramBins, ErrInvalidConfig)
		}
		if c.HistogramMaxNs <= c.HistogramMinNs {
			return fmt.Errorf("histogram_max_ns (%d) must be > histogram_min_ns (%d): %w", c.HistogramMaxNs, c.HistogramMinNs, ErrInvalidConfig)
		}
	}
	return nil
}

// LoadConfig reads and strictly parses a YAML configuration file, the
// same way sim.LoadPolicyBundle does for policy bundles: unrecognised
// keys are a load error, not a silently-ignored field.
func LoadConfig(path string) (Config, error) {
	c := ConfigDefault()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := ConfigValidate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}
