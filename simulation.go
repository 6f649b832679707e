package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/world"
)

// Display constants
const (
	ParticleSize = 2.0
	MinZoom      = 0.1 // Limit zoom out to prevent excessive tiling
	CameraSpeed  = 500.0
	SpawnBurst   = 100
	HeatmapStep  = 20.0
	StateFile    = "state.json"
)

// Visualization modes cycled with H
const (
	VisParticles = iota
	VisHeatmap
	VisTrails
	visModes
)

// Simulation is the ebiten host around a world
type Simulation struct {
	World          *world.World
	Paused         bool
	ShowHUD        bool
	VisMode        int
	Zoom           float64
	CamX, CamY     float64 // Camera pan
	PrevMX, PrevMY float64 // Previous mouse position for drag
	palette        []color.RGBA
}

// NewSimulation wraps a world for display
func NewSimulation(w *world.World) *Simulation {
	s := &Simulation{
		World:   w,
		ShowHUD: true,
		Zoom:    1.0,
	}
	s.palette = world.Palette(w.State().Colors())
	return s
}

// Update is called each tick by Ebitengine
func (s *Simulation) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	s.handleInput(dt)

	if s.Paused {
		return nil
	}

	if err := s.World.Step(dt); err != nil {
		// The tick did not happen; keep the last frame and wait for a command
		log.Printf("step failed, pausing: %v", err)
		s.Paused = true
	}
	s.syncPalette()
	return nil
}

// Draw is called each frame by Ebitengine
func (s *Simulation) Draw(screen *ebiten.Image) {
	w := s.World
	screenWidth := float64(screen.Bounds().Dx())
	screenHeight := float64(screen.Bounds().Dy())

	// Calculate visible world range
	visibleMinX := s.CamX
	visibleMaxX := s.CamX + screenWidth/s.Zoom
	visibleMinY := s.CamY
	visibleMaxY := s.CamY + screenHeight/s.Zoom

	// Calculate tile ranges
	dxFrom := math.Floor(visibleMinX / w.Width)
	dxTo := math.Ceil(visibleMaxX / w.Width)
	dyFrom := math.Floor(visibleMinY / w.Height)
	dyTo := math.Ceil(visibleMaxY / w.Height)

	switch s.VisMode {
	case VisParticles:
		for dx := dxFrom; dx < dxTo; dx++ {
			for dy := dyFrom; dy < dyTo; dy++ {
				offsetX := dx * w.Width
				offsetY := dy * w.Height
				for _, p := range w.Particles {
					sx := s.worldToScreenX(p.X + offsetX)
					sy := s.worldToScreenY(p.Y + offsetY)
					if sx >= -ParticleSize && sx <= screenWidth+ParticleSize && sy >= -ParticleSize && sy <= screenHeight+ParticleSize {
						vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(ParticleSize*s.Zoom), s.classColor(p.Class), true)
					}
				}
			}
		}
	case VisHeatmap:
		size := float32(HeatmapStep * s.Zoom)
		for x := 0.0; x < w.Width; x += HeatmapStep {
			for y := 0.0; y < w.Height; y += HeatmapStep {
				// Sampled once per cell, drawn on every visible tile
				intensity := uint8(math.Min(w.ForceMagnitudeAt(x, y)*255, 255))
				col := color.RGBA{intensity, 0, 255 - intensity, 255}
				for dx := dxFrom; dx < dxTo; dx++ {
					for dy := dyFrom; dy < dyTo; dy++ {
						sx := s.worldToScreenX(x + dx*w.Width)
						sy := s.worldToScreenY(y + dy*w.Height)
						if sx >= -HeatmapStep*s.Zoom && sx <= screenWidth && sy >= -HeatmapStep*s.Zoom && sy <= screenHeight {
							vector.DrawFilledRect(screen, float32(sx), float32(sy), size, size, col, false)
						}
					}
				}
			}
		}
	case VisTrails:
		for dx := dxFrom; dx < dxTo; dx++ {
			for dy := dyFrom; dy < dyTo; dy++ {
				offsetX := dx * w.Width
				offsetY := dy * w.Height
				for _, p := range w.Particles {
					col := s.classColor(p.Class)
					for i := 1; i < len(p.Trail); i++ {
						prev, curr := p.Trail[i-1], p.Trail[i]
						// Skip the segment that crosses the torus seam
						if math.Abs(curr.X-prev.X) > w.Width/2 || math.Abs(curr.Y-prev.Y) > w.Height/2 {
							continue
						}
						prevSX := s.worldToScreenX(prev.X + offsetX)
						prevSY := s.worldToScreenY(prev.Y + offsetY)
						currSX := s.worldToScreenX(curr.X + offsetX)
						currSY := s.worldToScreenY(curr.Y + offsetY)
						if (prevSX >= -1 && prevSX <= screenWidth+1 && prevSY >= -1 && prevSY <= screenHeight+1) ||
							(currSX >= -1 && currSX <= screenWidth+1 && currSY >= -1 && currSY <= screenHeight+1) {
							vector.StrokeLine(screen, float32(prevSX), float32(prevSY), float32(currSX), float32(currSY), 1, col, true)
						}
					}
				}
			}
		}
	}

	if s.ShowHUD {
		s.drawHUD(screen)
	}
}

// Layout returns the screen size
func (s *Simulation) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(s.World.Width), int(s.World.Height)
}

// drawHUD prints counters, parameters and mode flags in the top left corner
func (s *Simulation) drawHUD(screen *ebiten.Image) {
	st := s.World.State()
	p := st.Params
	lines := []string{
		fmt.Sprintf("TPS %.0f  particles %d  colors %d  tick %d", ebiten.ActualTPS(), len(s.World.Particles), st.Colors(), s.World.TickCount),
		fmt.Sprintf("speed %.4g  beta %.3f  gamma %.3f  radius %.1f", p.Speed, p.Beta, p.Gamma, p.Radius),
		fmt.Sprintf("paused %t  evolve %t  lifecycle %t  %s", s.Paused, s.World.EvolutionMode, s.World.LifecycleMode, s.World.Integration),
	}
	for i, line := range lines {
		text.Draw(screen, line, basicfont.Face7x13, 6, 16+i*16, color.White)
	}
}

// handleInput maps keys and mouse to control commands and camera moves
func (s *Simulation) handleInput(dt float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.Paused = !s.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.apply(life.Command{Kind: life.RegenerateBehaviorMatrix})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.apply(life.Command{Kind: life.RegenerateShapeConstants})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		s.apply(life.Command{Kind: life.RegeneratePalette})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		s.apply(life.Command{Kind: life.DoubleSpeed})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		s.apply(life.Command{Kind: life.HalveSpeed})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		s.World.EvolutionMode = !s.World.EvolutionMode
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		s.World.LifecycleMode = !s.World.LifecycleMode
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.VisMode = (s.VisMode + 1) % visModes
		s.World.Trails = s.VisMode == VisTrails
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.ShowHUD = !s.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := s.World.Save(StateFile); err != nil {
			log.Printf("save: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := s.World.Load(StateFile); err != nil {
			log.Printf("load: %v", err)
		}
		s.syncPalette()
	}

	// Camera pan with WASD, scaled so the apparent speed is zoom independent
	step := CameraSpeed * dt / s.Zoom
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		s.CamX -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		s.CamX += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		s.CamY -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		s.CamY += step
	}

	// Zoom
	_, wheelY := ebiten.Wheel()
	s.Zoom += wheelY * 0.1
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		s.Zoom *= 1.1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		s.Zoom /= 1.1
	}
	if s.Zoom < MinZoom {
		s.Zoom = MinZoom
	}

	mx, my := ebiten.CursorPosition()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	if shift && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.World.SpawnAt(s.screenToWorldX(float64(mx)), s.screenToWorldY(float64(my)))
	} else if !shift && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		// Pan (drag)
		s.CamX -= (float64(mx) - s.PrevMX) / s.Zoom
		s.CamY -= (float64(my) - s.PrevMY) / s.Zoom
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		s.World.Spawn(SpawnBurst)
	}
	s.PrevMX = float64(mx)
	s.PrevMY = float64(my)
}

func (s *Simulation) apply(cmd life.Command) {
	if _, err := s.World.Apply(cmd); err != nil {
		log.Printf("command %s: %v", cmd, err)
		return
	}
	s.syncPalette()
}

// syncPalette rebuilds display colors when the palette size changed
func (s *Simulation) syncPalette() {
	if n := s.World.State().Colors(); n != len(s.palette) {
		s.palette = world.Palette(n)
	}
}

func (s *Simulation) classColor(class int) color.RGBA {
	if class < 0 || class >= len(s.palette) {
		return color.RGBA{255, 255, 255, 255}
	}
	return s.palette[class]
}

// worldToScreenX/Y for camera
func (s *Simulation) worldToScreenX(wx float64) float64 {
	return (wx - s.CamX) * s.Zoom
}
func (s *Simulation) worldToScreenY(wy float64) float64 {
	return (wy - s.CamY) * s.Zoom
}

func (s *Simulation) screenToWorldX(sx float64) float64 {
	return sx/s.Zoom + s.CamX
}
func (s *Simulation) screenToWorldY(sy float64) float64 {
	return sy/s.Zoom + s.CamY
}
