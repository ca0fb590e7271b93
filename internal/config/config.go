// Package config holds the analysis configuration shared by the CLI
// flags and the optional YAML config file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jbernhard/flow-cumulants/internal/flow"
)

// Input formats understood by the driver.
const (
	FormatPhi   = "phi"
	FormatURQMD = "urqmd"
)

// Config is the full driver configuration.
type Config struct {
	// Harmonics is the inclusive "min:max" harmonic range, e.g. "2:4".
	Harmonics string `yaml:"harmonics"`

	// MaxOrder is the highest cumulant order to compute: 2, 4 or 6.
	MaxOrder int `yaml:"max_order"`

	// WithError requests the statistical error on v_n{2}.
	WithError bool `yaml:"with_error"`

	// Format selects the input reader: "phi" or "urqmd".
	Format string `yaml:"format"`

	// EtaMax enables the pseudorapidity cut of the urqmd reader and,
	// when positive, the dNch/deta output prefix. Zero disables both.
	EtaMax float64 `yaml:"eta_max"`

	// PTMin and PTMax select the urqmd reader's transverse-momentum
	// window [PTMin, PTMax). PTMax of zero disables the window.
	PTMin float64 `yaml:"pt_min"`
	PTMax float64 `yaml:"pt_max"`

	// Workers above 1 enables parallel accumulation.
	Workers int `yaml:"workers"`

	// MetricsAddr, when non-empty, serves Prometheus metrics and a
	// health endpoint on the given host:port for long-running streams.
	MetricsAddr string `yaml:"metrics_addr"`

	// Labels switches the report from bare scalars to labeled lines.
	Labels bool `yaml:"labels"`

	// Precision is the number of significant digits in the report.
	Precision int `yaml:"precision"`
}

// Default returns the stock configuration: harmonics 2 through 4,
// 2-particle cumulants only, plain phi input.
func Default() Config {
	return Config{
		Harmonics: "2:4",
		MaxOrder:  2,
		Format:    FormatPhi,
		Workers:   1,
		Precision: 8,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, nil
}

// Request validates the configuration and maps it onto a flow.Request.
func (c Config) Request() (flow.Request, error) {
	min, max, err := parseHarmonicRange(c.Harmonics)
	if err != nil {
		return flow.Request{}, err
	}
	req := flow.Request{
		MinHarmonic: min,
		MaxHarmonic: max,
		Order:       c.MaxOrder,
		WithError:   c.WithError,
	}
	if err := req.Validate(); err != nil {
		return flow.Request{}, err
	}
	return req, nil
}

// Validate checks the parts of the configuration outside the numeric
// core's own request validation.
func (c Config) Validate() error {
	if _, err := c.Request(); err != nil {
		return err
	}
	switch c.Format {
	case FormatPhi, FormatURQMD:
	default:
		return fmt.Errorf("unknown input format %q (want %q or %q)", c.Format, FormatPhi, FormatURQMD)
	}
	if c.PTMax > 0 && c.PTMin >= c.PTMax {
		return fmt.Errorf("empty pT window [%g, %g)", c.PTMin, c.PTMax)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Precision < 1 {
		return fmt.Errorf("precision must be at least 1, got %d", c.Precision)
	}
	return nil
}

// parseHarmonicRange parses "min:max" or a single harmonic "n".
func parseHarmonicRange(s string) (min, max int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	min, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad harmonic range %q: %w", s, err)
	}
	if len(parts) == 1 {
		return min, min, nil
	}
	max, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad harmonic range %q: %w", s, err)
	}
	return min, max, nil
}
