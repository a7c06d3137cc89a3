// Package app opens a window and runs a tutorial variant: the shared
// bootstrap and render loop of every Hello Triangle program.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/shadercheck"
	"github.com/gogpu/shadercheck/glcore"
	"github.com/gogpu/shadercheck/tutorial"
)

func init() {
	// GLFW event handling and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// Config configures Run.
type Config struct {
	Variant *tutorial.Variant

	// Sink receives shader diagnostics (default: discarded)
	Sink shadercheck.Sink

	// Options controls log length and the failure policy
	Options shadercheck.Options

	// Logger receives lifecycle messages (default: slog.Default())
	Logger *slog.Logger
}

// Run opens a window for cfg.Variant and renders it until the window is
// closed, Escape is pressed or ctx is done. Run must be called from the
// main goroutine.
func Run(ctx context.Context, cfg Config) error {
	v := cfg.Variant
	if v == nil {
		return errors.New("app: no variant")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("app: init GLFW: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(v.Width, v.Height, v.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("app: create window: %w", err)
	}
	defer win.Destroy()

	win.MakeContextCurrent()
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		glcore.Viewport(width, height)
	})

	if err := glcore.Init(); err != nil {
		return err
	}
	log.Debug("OpenGL context ready", "version", glcore.Version(), "variant", v.Name)

	scene, err := newScene(v, cfg.Sink, cfg.Options)
	if err != nil {
		return err
	}
	defer scene.release()

	if !scene.programs.OK() {
		log.Warn("rendering with failed shader programs", "variant", v.Name)
	}

	for !win.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		processInput(win)
		scene.draw()
		win.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func processInput(win *glfw.Window) {
	if win.GetKey(glfw.KeyEscape) == glfw.Press {
		win.SetShouldClose(true)
	}
}
