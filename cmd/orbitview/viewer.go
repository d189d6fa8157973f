package main

import (
	"context"
	"fmt"
	"time"

	"fortio.org/log"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/orbitview/internal/config"
	"github.com/taigrr/orbitview/pkg/models"
	"github.com/taigrr/orbitview/pkg/render"
)

// rotateSpeed is the rotation rate in radians per second while a key is held.
const rotateSpeed = 2.0

// SpinAxis is the velocity of one rotation axis, decayed to rest by a spring
// so a released key eases out instead of stopping dead.
type SpinAxis struct {
	Velocity float64 // radians per second
	spring   harmonica.Spring
	accel    float64 // spring velocity of Velocity itself
}

// NewSpinAxis creates an axis stepped at the target frame rate.
func NewSpinAxis(fps int) SpinAxis {
	return SpinAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update decays the velocity one frame toward zero.
func (a *SpinAxis) Update() {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

type actionKind int

const (
	actRotate actionKind = iota
	actZoomIn
	actZoomOut
	actReset
	actAutoRotate
	actWireframe
	actGuides
	actHUD
	actResize
	actQuit
)

// action is one input event, translated by the event goroutine and applied
// by the frame loop, which is the only goroutine touching the scene.
type action struct {
	kind       actionKind
	yaw, pitch float64 // actRotate direction, -1, 0 or 1
	w, h       int     // actResize terminal size in cells
}

// keyAction maps a key press to an action.
func keyAction(ev uv.KeyPressEvent) (action, bool) {
	switch {
	case ev.MatchString("q", "esc", "escape", "ctrl+c"):
		return action{kind: actQuit}, true
	case ev.MatchString("left", "a"):
		return action{kind: actRotate, yaw: -1}, true
	case ev.MatchString("right", "d"):
		return action{kind: actRotate, yaw: 1}, true
	case ev.MatchString("up", "w"):
		return action{kind: actRotate, pitch: -1}, true
	case ev.MatchString("down", "s"):
		return action{kind: actRotate, pitch: 1}, true
	case ev.MatchString("+", "="):
		return action{kind: actZoomIn}, true
	case ev.MatchString("-", "_"):
		return action{kind: actZoomOut}, true
	case ev.MatchString("r"):
		return action{kind: actReset}, true
	case ev.MatchString("space"):
		return action{kind: actAutoRotate}, true
	case ev.MatchString("x"):
		return action{kind: actWireframe}, true
	case ev.MatchString("g"):
		return action{kind: actGuides}, true
	case ev.MatchString("?", "shift+/"):
		return action{kind: actHUD}, true
	}
	return action{}, false
}

// viewer owns the scene for the interactive loop.
type viewer struct {
	mesh     *models.Mesh
	cam      *render.Camera
	renderer *render.Renderer
	fps      int

	yaw, pitch SpinAxis

	guides bool
	hud    bool
	stats  render.Stats
}

// newViewer sizes the scene for a terminal of cols x rows cells.
// Each cell holds two pixels stacked vertically.
func newViewer(cfg config.Config, mesh *models.Mesh, cols, rows int) *viewer {
	cam, r := newScene(cfg, cols, rows*2)
	return &viewer{
		mesh:     mesh,
		cam:      cam,
		renderer: r,
		fps:      cfg.FPS,
		yaw:      NewSpinAxis(cfg.FPS),
		pitch:    NewSpinAxis(cfg.FPS),
		guides:   cfg.ShowAxes,
		hud:      true,
	}
}

func (v *viewer) framebuffer() *render.Framebuffer {
	return v.renderer.Framebuffer
}

// apply changes scene state for one action. actQuit is handled by the loop.
func (v *viewer) apply(a action) {
	switch a.kind {
	case actRotate:
		if a.yaw != 0 {
			v.yaw.Velocity = a.yaw * rotateSpeed
		}
		if a.pitch != 0 {
			v.pitch.Velocity = a.pitch * rotateSpeed
		}
	case actZoomIn:
		v.cam.ZoomIn()
	case actZoomOut:
		v.cam.ZoomOut()
	case actReset:
		v.cam.Reset()
		v.yaw = NewSpinAxis(v.fps)
		v.pitch = NewSpinAxis(v.fps)
	case actAutoRotate:
		v.cam.ToggleAutoRotate()
	case actWireframe:
		v.renderer.ToggleWireframe()
	case actGuides:
		v.guides = !v.guides
	case actHUD:
		v.hud = !v.hud
	case actResize:
		v.resize(a.w, a.h)
	}
}

func (v *viewer) resize(cols, rows int) {
	v.renderer.Framebuffer = render.NewFramebuffer(cols, rows*2)
	v.cam.SetAspectRatio(float64(cols), float64(rows*2))
}

// frame advances the scene by dt seconds and redraws the framebuffer.
func (v *viewer) frame(dt float64) {
	v.cam.Rotate(v.yaw.Velocity*dt, v.pitch.Velocity*dt)
	v.yaw.Update()
	v.pitch.Update()
	v.cam.Update(dt)

	v.stats = v.renderer.RenderMesh(v.mesh)
	if v.guides {
		fb := v.framebuffer()
		size := v.mesh.Size().MaxComponent()
		render.DrawAxes(fb, v.cam, size*0.75)
		render.DrawBox(fb, v.cam, render.NewAABB(v.mesh.GetBounds()), render.ColorGray)
	}
}

// fpsCounter averages frames over one second windows.
type fpsCounter struct {
	fps    float64
	frames int
	since  time.Time
}

func (c *fpsCounter) tick(now time.Time) {
	if c.since.IsZero() {
		c.since = now
	}
	c.frames++
	if elapsed := now.Sub(c.since); elapsed >= time.Second {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.since = now
	}
}

// hudLines returns the top and bottom overlay rows.
func (v *viewer) hudLines(fps float64) (top, bottom string) {
	top = fmt.Sprintf(" %.0f FPS  %s  %d/%d tris ", fps, v.mesh.Name, v.stats.Drawn, v.stats.Triangles)
	auto := "off"
	if v.cam.AutoRotate {
		auto = "on"
	}
	bottom = fmt.Sprintf(" %s  zoom %.2fx  auto-rotate %s  ? hides ", v.renderer.Mode, v.cam.Scale, auto)
	return top, bottom
}

// runViewer takes over the terminal until ctx is done or the user quits.
func runViewer(ctx context.Context, cfg config.Config, mesh *models.Mesh) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Warnf("terminal shutdown: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v := newViewer(cfg, mesh, width, height)
	actions := make(chan action, 16)

	// Event handler
	go func() {
		for ev := range term.Events() {
			var a action
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				a = action{kind: actResize, w: ev.Width, h: ev.Height}
			case uv.KeyPressEvent:
				var ok bool
				if a, ok = keyAction(ev); !ok {
					continue
				}
			default:
				continue
			}
			select {
			case actions <- a:
			case <-ctx.Done():
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.FPS)
	lastFrame := time.Now()
	var fps fpsCounter
	bg := render.RGB(0, 0, 0)
	fg := render.ColorWhite

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

	drain:
		for {
			select {
			case a := <-actions:
				switch a.kind {
				case actQuit:
					return nil
				case actResize:
					width, height = a.w, a.h
					term.Erase()
					term.Resize(width, height)
				}
				v.apply(a)
			default:
				break drain
			}
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		v.frame(dt)
		v.framebuffer().Draw(term, uv.Rect(0, 0, width, height))

		fps.tick(now)
		if v.hud {
			top, bottom := v.hudLines(fps.fps)
			render.DrawText(term, 0, 0, top, fg, bg)
			render.DrawText(term, 0, height-1, bottom, fg, bg)
		}

		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
