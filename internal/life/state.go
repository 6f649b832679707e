package life

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
)

// State is one immutable generation of palette, matrix and parameters.
// Commands never modify a State; they publish a new one.
type State struct {
	Matrix *Matrix `json:"matrix"`
	Params Params  `json:"params"`
}

// NewState generates a palette, matrix and parameters from cfg
func NewState(rng *rand.Rand, cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := GenerateMatrix(rng, cfg.Colors)
	if err != nil {
		return nil, err
	}
	p, err := NewParams(rng, cfg)
	if err != nil {
		return nil, err
	}
	return &State{Matrix: m, Params: p}, nil
}

// Validate checks what a tick relies on. Speed may drift arbitrarily through
// doubling and halving, so only NaN is rejected here.
func (s *State) Validate() error {
	if s == nil || s.Matrix == nil {
		return fmt.Errorf("%w: no behavior matrix", ErrInvalidPalette)
	}
	if err := s.Params.validateShape(); err != nil {
		return err
	}
	if math.IsNaN(s.Params.Speed) {
		return fmt.Errorf("%w: speed is NaN", ErrInvalidParams)
	}
	return nil
}

// Colors returns the palette size
func (s *State) Colors() int {
	return s.Matrix.Size()
}

// CommandKind enumerates the control commands a host can issue
type CommandKind int

const (
	RegenerateBehaviorMatrix CommandKind = iota
	RegenerateShapeConstants
	RegeneratePalette
	DoubleSpeed
	HalveSpeed
	MutateMatrix
)

var commandNames = [...]string{
	RegenerateBehaviorMatrix: "RegenerateBehaviorMatrix",
	RegenerateShapeConstants: "RegenerateShapeConstants",
	RegeneratePalette:        "RegeneratePalette",
	DoubleSpeed:              "DoubleSpeed",
	HalveSpeed:               "HalveSpeed",
	MutateMatrix:             "MutateMatrix",
}

func (k CommandKind) String() string {
	if k >= 0 && int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is a control command. Colors is used by RegeneratePalette only;
// zero draws the new palette size from the configured range.
type Command struct {
	Kind   CommandKind
	Colors int
}

func (c Command) String() string {
	if c.Kind == RegeneratePalette && c.Colors > 0 {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Colors)
	}
	return c.Kind.String()
}

// Change reports the outcome of an applied command
type Change struct {
	Old, New *State
	// PaletteChanged means existing class ids are stale; the host must respawn
	// its particles before the next tick
	PaletteChanged bool
}

// Controller owns the current State and serializes commands.
// Ticks read it with Load once and keep that pointer for the whole pass.
type Controller struct {
	mu  sync.Mutex // Serializes writers and guards rng
	cfg Config
	rng *rand.Rand
	cur atomic.Pointer[State]
}

// NewController generates the initial state from cfg with the given seed
func NewController(cfg Config, seed int64) (*Controller, error) {
	rng := rand.New(rand.NewSource(seed))
	st, err := NewState(rng, cfg)
	if err != nil {
		return nil, err
	}
	c := &Controller{cfg: cfg, rng: rng}
	c.cur.Store(st)
	return c, nil
}

// Load returns the current state
func (c *Controller) Load() *State {
	return c.cur.Load()
}

// Config returns the generation config
func (c *Controller) Config() Config {
	return c.cfg
}

// Replace publishes an externally built state, e.g. one loaded from disk
func (c *Controller) Replace(st *State) (Change, error) {
	if err := st.Validate(); err != nil {
		return Change{}, err
	}
	if err := st.Params.Validate(); err != nil {
		return Change{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.cur.Swap(st)
	return Change{Old: old, New: st, PaletteChanged: old.Colors() != st.Colors()}, nil
}

// Apply builds the next state from the current one and swaps it in atomically
func (c *Controller) Apply(cmd Command) (Change, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.cur.Load()
	next := &State{Matrix: old.Matrix, Params: old.Params}
	ch := Change{Old: old, New: next}

	var err error
	switch cmd.Kind {
	case RegenerateBehaviorMatrix:
		next.Matrix, err = RandomMatrix(c.rng, old.Colors())
	case RegenerateShapeConstants:
		next.Params, err = old.Params.WithShapeConstants(c.rng, c.cfg)
	case RegeneratePalette:
		if cmd.Colors > 0 {
			next.Matrix, err = RandomMatrix(c.rng, cmd.Colors)
		} else {
			next.Matrix, err = GenerateMatrix(c.rng, c.cfg.Colors)
		}
		ch.PaletteChanged = true
	case DoubleSpeed:
		next.Params = old.Params.DoubleSpeed()
	case HalveSpeed:
		next.Params = old.Params.HalveSpeed()
	case MutateMatrix:
		next.Matrix = old.Matrix.Mutate(c.rng, MutationSigma)
	default:
		err = errors.New("unknown command " + cmd.Kind.String())
	}
	if err != nil {
		return Change{}, fmt.Errorf("apply %s: %w", cmd, err)
	}

	c.cur.Store(next)
	return ch, nil
}

// RemapClasses returns a copy of ps with every class folded into [0, n) by modulo.
// It is the alternative to respawning after a palette change.
func RemapClasses(ps []Particle, n int) ([]Particle, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d classes", ErrInvalidPalette, n)
	}
	out := make([]Particle, len(ps))
	for i, p := range ps {
		c := p.Class % n
		if c < 0 {
			c += n
		}
		out[i] = Particle{Pos: p.Pos, Class: c}
	}
	return out, nil
}
