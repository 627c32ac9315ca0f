// Package main is the interactive model viewer: it loads an asset
// descriptor, streams its resources in over the frame loop, and renders
// the scene with an orbit camera.
package main

import (
	"flag"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/asgard/internal/config"
	"github.com/Faultbox/asgard/internal/engine/asset"
	"github.com/Faultbox/asgard/internal/engine/camera"
	"github.com/Faultbox/asgard/internal/engine/fetch"
	"github.com/Faultbox/asgard/internal/engine/gfx"
	"github.com/Faultbox/asgard/internal/engine/window"
	"github.com/Faultbox/asgard/internal/logger"
	"github.com/Faultbox/asgard/pkg/math"
)

const windowTitle = "Asgard Viewer"

func init() {
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	modelPath := cfg.Assets.Model
	if flag.NArg() > 0 {
		modelPath = flag.Arg(0)
	}
	if modelPath == "" {
		fmt.Fprintln(os.Stderr, "usage: viewer [flags] model.json")
		os.Exit(2)
	}

	if err := run(cfg, modelPath); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, modelPath string) error {
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	device, err := gfx.NewGLDevice()
	if err != nil {
		return err
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	renderer := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", renderer),
	)

	dw, dh := win.DrawableSize()
	gl.Viewport(0, 0, int32(dw), int32(dh))

	// The model's URIs are resolved relative to the descriptor's own
	// directory inside the configured asset root.
	descData, err := os.ReadFile(filepath.Join(cfg.Assets.Root, modelPath))
	if err != nil {
		return fmt.Errorf("reading descriptor: %w", err)
	}

	cam := camera.NewOrbitCamera()
	cam.DragSensitivity = cfg.Viewer.OrbitSpeed
	cam.ZoomSensitivity = cfg.Viewer.ZoomSpeed

	fetcher := fetch.NewFileFetcher(filepath.Join(cfg.Assets.Root, filepath.Dir(modelPath)))
	model, err := asset.LoadModel(descData, asset.Options{
		Fetcher: fetcher,
		Device:  device,
		Logger:  logger.Log,
		OnReady: func(m *asset.Model) {
			logger.Info("model ready",
				zap.String("path", modelPath),
				zap.Int("commands", len(m.Commands())),
				zap.Strings("clips", m.Clips()),
			)
			cam.FitToSphere(m.BoundingSphere())
		},
	})
	if err != nil {
		return err
	}
	defer model.Destroy()

	clear := cfg.Viewer.ClearColor
	start := sdl.GetTicks64()
	var frame uint64
	var dragging bool
	autoPlayed := false

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false

			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
					dw, dh = win.DrawableSize()
					gl.Viewport(0, 0, int32(dw), int32(dh))
				}

			case *sdl.MouseButtonEvent:
				if e.Button == sdl.BUTTON_LEFT {
					dragging = e.State == sdl.PRESSED
				}

			case *sdl.MouseMotionEvent:
				if dragging {
					cam.HandleDrag(float32(e.XRel), float32(e.YRel))
				}

			case *sdl.MouseWheelEvent:
				cam.HandleZoom(float32(e.Y))

			case *sdl.KeyboardEvent:
				if e.State == sdl.PRESSED && e.Keysym.Sym == sdl.K_ESCAPE {
					running = false
				}
			}
		}

		frame++
		now := float64(sdl.GetTicks64()-start) / 1000
		if err := model.Update(asset.FrameState{FrameNumber: frame, Time: now}); err != nil {
			return err
		}

		if model.Ready() && !autoPlayed {
			autoPlayed = true
			if clip := cfg.Viewer.Animation; clip != "" {
				if err := model.PlayClip(clip, now, cfg.Viewer.LoopClips); err != nil {
					logger.Warn("cannot play clip", zap.String("clip", clip), zap.Error(err))
				}
			}
		}

		gl.ClearColor(clear[0], clear[1], clear[2], 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		view := cam.ViewMatrix()
		aspect := float32(dw) / float32(dh)
		proj := math.Perspective(60*gomath.Pi/180, aspect, 0.01, cam.MaxDistance*2)

		for _, cmd := range model.Commands() {
			if cmd.PickID != 0 {
				continue // pick pass commands are not drawn to screen
			}
			device.Draw(cmd, [16]float32(view), [16]float32(proj))
		}

		win.SwapBuffers()
	}

	logger.Info("viewer closed normally")
	return nil
}
