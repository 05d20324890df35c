package deepequal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/apd/v3"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth is the default depth ceiling for building, hashing &
// comparing trees
const DefaultMaxDepth = 1000

// Config holds all the knobs for building & comparing trees
type Config struct {
	// Filter excludes nodes from trees. nil keeps everything
	Filter *Filter
	// Comparer decides leaf equality, defaults to a Comparer with
	// DefaultTolerance
	Comparer ValueComparer
	// Formatter produces the display strings in difference messages
	Formatter ValueFormatter
	// MaxDepth is the depth ceiling, exceeding it is an ErrMaxDepth error
	MaxDepth int
	// Logger gets debug output about tree construction & comparison
	Logger *slog.Logger
	// Provide a non-nil stats pointer & comparison will populate it with data
	// from the diff process
	Stats *Stats
}

// Option is a function that adjusts a config, zero or more Options can be
// passed to New, Diff, Equal, Hash & NewTree
type Option func(cfg *Config)

func newConfig(opts []Option) *Config {
	cfg := &Config{
		Comparer:  NewComparer(DefaultTolerance()),
		Formatter: Formatter{},
		MaxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// WithFilter sets the filter used to build trees
func WithFilter(f *Filter) Option {
	return func(cfg *Config) {
		cfg.Filter = f
	}
}

// WithExcludedNames is shorthand for WithFilter(NewFilter(ExcludeNames(names...)))
func WithExcludedNames(names ...string) Option {
	return WithFilter(NewFilter(ExcludeNames(names...)))
}

// WithTolerance compares leaves with a Comparer using tol
func WithTolerance(tol Tolerance) Option {
	return func(cfg *Config) {
		cfg.Comparer = NewComparer(tol)
	}
}

// WithComparer replaces the leaf comparer
func WithComparer(c ValueComparer) Option {
	return func(cfg *Config) {
		cfg.Comparer = c
	}
}

// WithFormatter replaces the display formatter
func WithFormatter(f ValueFormatter) Option {
	return func(cfg *Config) {
		cfg.Formatter = f
	}
}

// WithMaxDepth sets the depth ceiling
func WithMaxDepth(depth int) Option {
	return func(cfg *Config) {
		cfg.MaxDepth = depth
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// OptionSetStats will set the passed-in stats pointer when a comparison runs
func OptionSetStats(st *Stats) Option {
	return func(cfg *Config) {
		cfg.Stats = st
	}
}

// FileConfig is the on-disk form of a comparison configuration
//
//	exclude: [ID, UpdatedAt]
//	tolerance:
//	  float64: 1e-9
//	  decimal: "0.001"
//	  time: 1ms
//	maxDepth: 500
//	maxDifferences: 50
type FileConfig struct {
	Exclude        []string        `yaml:"exclude"`
	Tolerance      ToleranceConfig `yaml:"tolerance"`
	MaxDepth       int             `yaml:"maxDepth"`
	MaxDifferences int             `yaml:"maxDifferences"`
}

// ToleranceConfig is the on-disk form of a Tolerance. unset fields keep their
// defaults
type ToleranceConfig struct {
	Float64 *float64 `yaml:"float64"`
	Float32 *float32 `yaml:"float32"`
	Decimal string   `yaml:"decimal"`
	Time    string   `yaml:"time"`
}

// ParseConfig decodes a YAML configuration, rejecting unknown fields
func ParseConfig(data []byte) (*FileConfig, error) {
	cfg := &FileConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("parsing config: maxDepth must not be negative, got %d", cfg.MaxDepth)
	}
	if cfg.MaxDifferences < 0 {
		return nil, fmt.Errorf("parsing config: maxDifferences must not be negative, got %d", cfg.MaxDifferences)
	}
	return cfg, nil
}

// LoadConfig reads & parses the configuration file at path
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ToleranceValue converts the tolerance section into a Tolerance
func (c *FileConfig) ToleranceValue() (Tolerance, error) {
	tol := DefaultTolerance()
	tc := c.Tolerance
	if tc.Float64 != nil {
		tol.Float64 = *tc.Float64
	}
	if tc.Float32 != nil {
		tol.Float32 = *tc.Float32
	}
	if tc.Decimal != "" {
		d, _, err := apd.NewFromString(tc.Decimal)
		if err != nil {
			return tol, fmt.Errorf("invalid decimal tolerance %q: %w", tc.Decimal, err)
		}
		tol.Decimal = d
	}
	if tc.Time != "" {
		d, err := time.ParseDuration(tc.Time)
		if err != nil {
			return tol, fmt.Errorf("invalid time tolerance %q: %w", tc.Time, err)
		}
		tol.Time = d
	}
	return tol, nil
}

// Options converts the file configuration into Options
func (c *FileConfig) Options() ([]Option, error) {
	tol, err := c.ToleranceValue()
	if err != nil {
		return nil, err
	}
	opts := []Option{WithTolerance(tol)}
	if len(c.Exclude) > 0 {
		opts = append(opts, WithExcludedNames(c.Exclude...))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, WithMaxDepth(c.MaxDepth))
	}
	return opts, nil
}
