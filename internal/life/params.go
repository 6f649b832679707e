package life

import (
	"fmt"
	"math"
	"math/rand"
)

// FloatRange is an inclusive real range; Min == Max pins the value
type FloatRange struct {
	Min, Max float64
}

func (r FloatRange) sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Params holds the scalar knobs of the force law.
// Beta and Gamma are fractions of Radius delimiting the near, mid and far zones.
type Params struct {
	Speed  float64 `json:"speed"`
	Beta   float64 `json:"beta"`
	Gamma  float64 `json:"gamma"`
	Radius float64 `json:"attraction_radius"`
}

// Validate enforces 0 < beta < gamma < 1, radius > 0 and a positive finite speed
func (p Params) Validate() error {
	if err := p.validateShape(); err != nil {
		return err
	}
	if !(p.Speed > 0) || math.IsInf(p.Speed, 0) {
		return fmt.Errorf("%w: speed %v", ErrInvalidParams, p.Speed)
	}
	return nil
}

func (p Params) validateShape() error {
	switch {
	case !(p.Beta > 0 && p.Beta < 1):
		return fmt.Errorf("%w: beta %v outside (0, 1)", ErrInvalidParams, p.Beta)
	case !(p.Gamma > 0 && p.Gamma < 1):
		return fmt.Errorf("%w: gamma %v outside (0, 1)", ErrInvalidParams, p.Gamma)
	case p.Beta >= p.Gamma:
		return fmt.Errorf("%w: beta %v not below gamma %v", ErrInvalidParams, p.Beta, p.Gamma)
	case !(p.Radius > 0) || math.IsInf(p.Radius, 0):
		return fmt.Errorf("%w: attraction radius %v", ErrInvalidParams, p.Radius)
	}
	return nil
}

// NewParams samples shape constants from the config and sets speed to the base constant
func NewParams(rng *rand.Rand, cfg Config) (Params, error) {
	p, err := Params{Speed: cfg.BaseSpeed}.WithShapeConstants(rng, cfg)
	if err != nil {
		return Params{}, err
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// WithShapeConstants returns a copy with beta, gamma and radius re-sampled; speed is kept
func (p Params) WithShapeConstants(rng *rand.Rand, cfg Config) (Params, error) {
	p.Beta = cfg.Beta.sample(rng)
	p.Gamma = cfg.Gamma.sample(rng)
	p.Radius = cfg.Radius.sample(rng)
	if err := p.validateShape(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// DoubleSpeed returns a copy with speed multiplied by two. There is no upper bound.
func (p Params) DoubleSpeed() Params {
	p.Speed *= 2
	return p
}

// HalveSpeed returns a copy with speed divided by two. There is no lower bound.
func (p Params) HalveSpeed() Params {
	p.Speed /= 2
	return p
}
