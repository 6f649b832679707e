package life

import (
	"fmt"
	"runtime"
)

// Simulation defaults
const (
	BaseSpeed      = 100.0
	DefaultRadius  = 100.0
	MutationSigma  = 0.1 // Gaussian drift per cell in evolution mode
	ClassicPalette = 3
)

// Preset names a configuration profile
type Preset string

const (
	// PresetClassic is a fixed three-class palette with a fixed radius
	PresetClassic Preset = "classic"
	// PresetSmall draws 2..16 classes and a radius in [50, 200]
	PresetSmall Preset = "small"
	// PresetDense draws 20..100 classes and a radius in [50, 200]
	PresetDense Preset = "dense"
)

// Config describes how palettes and parameters are generated
type Config struct {
	Colors    IntRange   // Inclusive range for the number of classes
	Beta      FloatRange // Near zone boundary, fraction of radius
	Gamma     FloatRange // Far zone boundary, fraction of radius
	Radius    FloatRange // Attraction radius in world units
	BaseSpeed float64
	Workers   int  // Goroutines for the force pass, 1 runs serially
	UseGrid   bool // Spatial grid neighbor search instead of all pairs
}

// DefaultConfig returns the classic profile
func DefaultConfig() Config {
	return Config{
		Colors:    IntRange{Min: ClassicPalette, Max: ClassicPalette},
		Beta:      FloatRange{Min: 0.1, Max: 0.4},
		Gamma:     FloatRange{Min: 0.6, Max: 0.9},
		Radius:    FloatRange{Min: DefaultRadius, Max: DefaultRadius},
		BaseSpeed: BaseSpeed,
		Workers:   runtime.GOMAXPROCS(0),
		UseGrid:   true,
	}
}

// PresetConfig returns the configuration for a named profile
func PresetConfig(p Preset) (Config, error) {
	cfg := DefaultConfig()
	switch p {
	case PresetClassic, "":
	case PresetSmall:
		cfg.Colors = IntRange{Min: 2, Max: 16}
		cfg.Radius = FloatRange{Min: 50, Max: 200}
	case PresetDense:
		cfg.Colors = IntRange{Min: 20, Max: 100}
		cfg.Radius = FloatRange{Min: 50, Max: 200}
	default:
		return Config{}, fmt.Errorf("unknown preset %q", p)
	}
	return cfg, nil
}

// Validate rejects ranges that could produce an ill-formed force law
func (c Config) Validate() error {
	if err := c.Colors.Validate(); err != nil {
		return err
	}
	if !(c.Beta.Min > 0) || c.Beta.Max < c.Beta.Min {
		return fmt.Errorf("%w: beta range [%v, %v]", ErrInvalidRange, c.Beta.Min, c.Beta.Max)
	}
	if c.Gamma.Max >= 1 || c.Gamma.Max < c.Gamma.Min {
		return fmt.Errorf("%w: gamma range [%v, %v]", ErrInvalidRange, c.Gamma.Min, c.Gamma.Max)
	}
	// Disjoint sub-ranges guarantee beta < gamma for every draw
	if c.Beta.Max >= c.Gamma.Min {
		return fmt.Errorf("%w: beta range [%v, %v] overlaps gamma range [%v, %v]",
			ErrInvalidRange, c.Beta.Min, c.Beta.Max, c.Gamma.Min, c.Gamma.Max)
	}
	if !(c.Radius.Min > 0) || c.Radius.Max < c.Radius.Min {
		return fmt.Errorf("%w: radius range [%v, %v]", ErrInvalidRange, c.Radius.Min, c.Radius.Max)
	}
	if !(c.BaseSpeed > 0) {
		return fmt.Errorf("%w: base speed %v", ErrInvalidParams, c.BaseSpeed)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d workers", ErrInvalidRange, c.Workers)
	}
	return nil
}
