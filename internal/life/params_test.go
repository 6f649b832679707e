package life

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewParamsRanges(t *testing.T) {
	cfg, err := PresetConfig(PresetSmall)
	if err != nil {
		t.Fatalf("PresetConfig: %v", err)
	}
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		p, err := NewParams(rng, cfg)
		if err != nil {
			t.Fatalf("NewParams: %v", err)
		}
		if p.Beta < 0.1 || p.Beta > 0.4 {
			t.Errorf("beta %v outside [0.1, 0.4]", p.Beta)
		}
		if p.Gamma < 0.6 || p.Gamma > 0.9 {
			t.Errorf("gamma %v outside [0.6, 0.9]", p.Gamma)
		}
		if p.Radius < 50 || p.Radius > 200 {
			t.Errorf("radius %v outside [50, 200]", p.Radius)
		}
		if p.Speed != BaseSpeed {
			t.Errorf("speed = %v, want %v", p.Speed, BaseSpeed)
		}
	}
}

func TestNewParamsFixedRadius(t *testing.T) {
	p, err := NewParams(rand.New(rand.NewSource(1)), DefaultConfig())
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}
	if p.Radius != DefaultRadius {
		t.Errorf("radius = %v, want %v", p.Radius, DefaultRadius)
	}
}

func TestParamsValidate(t *testing.T) {
	good := Params{Speed: 1, Beta: 0.2, Gamma: 0.8, Radius: 10}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	tests := map[string]func(p *Params){
		"beta equals gamma": func(p *Params) { p.Beta = 0.8 },
		"beta above gamma":  func(p *Params) { p.Beta, p.Gamma = 0.7, 0.3 },
		"beta zero":         func(p *Params) { p.Beta = 0 },
		"gamma one":         func(p *Params) { p.Gamma = 1 },
		"gamma NaN":         func(p *Params) { p.Gamma = math.NaN() },
		"radius zero":       func(p *Params) { p.Radius = 0 },
		"radius negative":   func(p *Params) { p.Radius = -5 },
		"speed zero":        func(p *Params) { p.Speed = 0 },
		"speed infinite":    func(p *Params) { p.Speed = math.Inf(1) },
	}
	for name, mutate := range tests {
		p := good
		mutate(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: err = %v, want ErrInvalidParams", name, err)
		}
	}
}

func TestWithShapeConstantsKeepsSpeed(t *testing.T) {
	cfg, _ := PresetConfig(PresetDense)
	rng := rand.New(rand.NewSource(9))
	p := Params{Speed: 12.5, Beta: 0.2, Gamma: 0.8, Radius: 10}

	next, err := p.WithShapeConstants(rng, cfg)
	if err != nil {
		t.Fatalf("WithShapeConstants: %v", err)
	}
	if next.Speed != 12.5 {
		t.Errorf("speed = %v, want 12.5", next.Speed)
	}
	if next == p {
		t.Error("shape constants not re-sampled")
	}
	if p.Radius != 10 {
		t.Errorf("receiver changed: %+v", p)
	}
}

func TestSpeedControlUnbounded(t *testing.T) {
	p := Params{Speed: 1, Beta: 0.2, Gamma: 0.8, Radius: 10}
	for i := 0; i < 40; i++ {
		p = p.DoubleSpeed()
	}
	if p.Speed != math.Ldexp(1, 40) {
		t.Errorf("speed after 40 doublings = %v", p.Speed)
	}
	for i := 0; i < 80; i++ {
		p = p.HalveSpeed()
	}
	if p.Speed != math.Ldexp(1, -40) {
		t.Errorf("speed after 80 halvings = %v", p.Speed)
	}
	if p.Beta != 0.2 || p.Gamma != 0.8 || p.Radius != 10 {
		t.Errorf("shape changed by speed control: %+v", p)
	}
}

func TestConfigValidate(t *testing.T) {
	for _, preset := range []Preset{PresetClassic, PresetSmall, PresetDense} {
		cfg, err := PresetConfig(preset)
		if err != nil {
			t.Fatalf("%s: %v", preset, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: %v", preset, err)
		}
	}
	if _, err := PresetConfig("huge"); err == nil {
		t.Error("unknown preset accepted")
	}

	tests := map[string]func(c *Config){
		"overlapping zones": func(c *Config) { c.Beta.Max = 0.65 },
		"gamma reaches one": func(c *Config) { c.Gamma.Max = 1 },
		"beta from zero":    func(c *Config) { c.Beta.Min = 0 },
		"no colors":         func(c *Config) { c.Colors = IntRange{0, 0} },
		"inverted radius":   func(c *Config) { c.Radius = FloatRange{200, 50} },
		"zero workers":      func(c *Config) { c.Workers = 0 },
	}
	for name, mutate := range tests {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}
