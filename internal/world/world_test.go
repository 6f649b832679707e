package world

import (
	"path/filepath"
	"testing"

	"github.com/olivierh59500/particle-life/internal/life"
)

func newTestWorld(t *testing.T, n int) *World {
	t.Helper()
	cfg, err := life.PresetConfig(life.PresetSmall)
	if err != nil {
		t.Fatalf("PresetConfig: %v", err)
	}
	cfg.Workers = 2
	w, err := New(Options{Width: 400, Height: 300, Particles: n, Seed: 3, Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func checkInside(t *testing.T, w *World) {
	t.Helper()
	colors := w.State().Colors()
	for i, p := range w.Particles {
		if p.X < 0 || p.X >= w.Width || p.Y < 0 || p.Y >= w.Height {
			t.Fatalf("particle %d at (%v, %v) outside world", i, p.X, p.Y)
		}
		if p.Class < 0 || p.Class >= colors {
			t.Fatalf("particle %d has class %d with %d colors", i, p.Class, colors)
		}
	}
}

func TestNewSeedsParticles(t *testing.T) {
	w := newTestWorld(t, 500)
	if len(w.Particles) != 500 {
		t.Fatalf("particles = %d, want 500", len(w.Particles))
	}
	checkInside(t, w)
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{Width: 0, Height: 10, Config: life.DefaultConfig()}); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := New(Options{Width: 10, Height: 10, Particles: -1, Config: life.DefaultConfig()}); err == nil {
		t.Error("negative particle count accepted")
	}
}

func TestStepKeepsParticlesInWorld(t *testing.T) {
	for _, mode := range []Integration{IntegratePosition, IntegrateVelocity} {
		w := newTestWorld(t, 300)
		w.Integration = mode
		w.Trails = true
		for i := 0; i < 20; i++ {
			if err := w.Step(1.0 / 60); err != nil {
				t.Fatalf("%s: Step: %v", mode, err)
			}
		}
		checkInside(t, w)
		if w.TickCount != 20 {
			t.Errorf("%s: tick count = %d", mode, w.TickCount)
		}
		if n := len(w.Particles[0].Trail); n != TrailLength {
			t.Errorf("%s: trail length = %d, want %d", mode, n, TrailLength)
		}
	}
}

func TestPaletteChangeRespawns(t *testing.T) {
	w := newTestWorld(t, 200)
	ch, err := w.Apply(life.Command{Kind: life.RegeneratePalette, Colors: 2})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !ch.PaletteChanged {
		t.Fatal("palette change not reported")
	}
	if len(w.Particles) != 200 {
		t.Errorf("particles after respawn = %d, want 200", len(w.Particles))
	}
	checkInside(t, w)
	if err := w.Step(0.1); err != nil {
		t.Errorf("tick after palette change: %v", err)
	}
}

func TestSpeedCommandKeepsParticles(t *testing.T) {
	w := newTestWorld(t, 50)
	first := w.Particles[0]
	if _, err := w.Apply(life.Command{Kind: life.DoubleSpeed}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if w.Particles[0] != first {
		t.Error("speed change respawned particles")
	}
}

func TestEvolutionMutatesMatrix(t *testing.T) {
	w := newTestWorld(t, 10)
	w.EvolutionMode = true
	before := w.State().Matrix
	for i := 0; i < EvolutionInterval; i++ {
		if err := w.Step(0.01); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if w.State().Matrix == before {
		t.Error("matrix not mutated after an evolution interval")
	}
}

func TestLifecycle(t *testing.T) {
	w := newTestWorld(t, 0)
	w.LifecycleMode = true
	// One isolated particle and one dense clump
	w.SpawnAt(350, 250)
	for i := 0; i < 15; i++ {
		w.SpawnAt(10+float64(i)*0.1, 10)
	}

	if err := w.Step(0); err != nil {
		t.Fatalf("Step: %v", err)
	}
	for _, p := range w.Particles {
		if p.X > 300 {
			t.Error("isolated particle survived")
		}
	}
	if len(w.Particles) < 16 {
		t.Errorf("no birth in crowded cell: %d particles", len(w.Particles))
	}
}

func TestSaveLoad(t *testing.T) {
	w := newTestWorld(t, 20)
	path := filepath.Join(t.TempDir(), "state.json")
	if err := w.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved := w.State()
	if _, err := w.Apply(life.Command{Kind: life.RegenerateShapeConstants}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := w.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.State().Params != saved.Params {
		t.Errorf("params = %+v, want %+v", w.State().Params, saved.Params)
	}
	if len(w.Particles) != 20 {
		t.Errorf("particles = %d", len(w.Particles))
	}
}

func TestForceMagnitudeAt(t *testing.T) {
	w := newTestWorld(t, 0)
	if m := w.ForceMagnitudeAt(10, 10); m != 0 {
		t.Errorf("empty world magnitude = %v", m)
	}
	w.SpawnAt(12, 10)
	if m := w.ForceMagnitudeAt(10, 10); m <= 0 {
		t.Errorf("magnitude next to a particle = %v", m)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ v, want float64 }{
		{5, 5}, {-1, 99}, {100, 0}, {250, 50}, {-1e-18, 0},
	}
	for _, tt := range tests {
		if got := wrap(tt.v, 100); got != tt.want {
			t.Errorf("wrap(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestPalette(t *testing.T) {
	p := Palette(5)
	if len(p) != 5 {
		t.Fatalf("len = %d", len(p))
	}
	seen := map[[3]uint8]bool{}
	for _, c := range p {
		if c.A != 255 {
			t.Errorf("alpha = %d", c.A)
		}
		seen[[3]uint8{c.R, c.G, c.B}] = true
	}
	if len(seen) != 5 {
		t.Errorf("palette colors not distinct: %v", p)
	}
}

func TestParseIntegration(t *testing.T) {
	if m, err := ParseIntegration("velocity"); err != nil || m != IntegrateVelocity {
		t.Errorf("velocity: %v %v", m, err)
	}
	if m, err := ParseIntegration(""); err != nil || m != IntegratePosition {
		t.Errorf("default: %v %v", m, err)
	}
	if _, err := ParseIntegration("verlet"); err == nil {
		t.Error("unknown mode accepted")
	}
}
