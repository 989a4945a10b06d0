// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

// Command gpudemo opens a window and draws a glTF asset with
// a fly camera: W/S/A/D to move, Space/C up and down, Q/E to yaw,
// R/F to pitch and Escape to quit.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"time"

	cerrors "cogentcore.org/core/base/errors"
	"cogentcore.org/gpudemo/asset"
	"cogentcore.org/gpudemo/camera"
	"cogentcore.org/gpudemo/config"
	"cogentcore.org/gpudemo/frame"
	"cogentcore.org/gpudemo/gpu"
	"cogentcore.org/gpudemo/input"
	"cogentcore.org/gpudemo/render"
	"cogentcore.org/gpudemo/shaders"
)

var (
	configFile = flag.String("config", "", "config file, .toml or .yaml")
	assetFile  = flag.String("asset", "", "glTF file to draw, replacing the configured assets")
	spirvFile  = flag.String("spirv", "", "precompiled SPIR-V mesh shader from wgslc, used instead of the embedded WGSL")
	verbose    = flag.Bool("v", false, "debug logging")
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		gpu.Debug = true
	}
	if err := run(); err != nil {
		slog.Error("gpudemo", "err", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cf := config.New()
	if *configFile != "" {
		var err error
		cf, err = config.Open(*configFile)
		if err != nil {
			return nil, err
		}
	}
	if *assetFile != "" {
		cf.Assets = []config.Asset{{Path: *assetFile}}
	}
	if len(cf.Assets) == 0 {
		return nil, errors.New("no asset to draw: use -asset or a config file")
	}
	return cf, nil
}

func shaderSource(cf *config.Config) (gpu.ShaderSource, error) {
	src, err := shaders.Source(&cf.Pipeline)
	if err != nil {
		return src, err
	}
	if *spirvFile != "" {
		src.WGSL = ""
		if err := src.OpenSPIRV(*spirvFile); err != nil {
			return src, err
		}
	}
	return src, shaders.Validate(&src)
}

func run() error {
	cf, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := shaderSource(cf)
	if err != nil {
		return err
	}

	var resize func(size image.Point)
	size := image.Point{cf.Window.Width, cf.Window.Height}
	window, ws, terminate, pollEvents, size, err := gpu.GLFWCreateWindow(size, cf.Window.Title, &resize)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer terminate()

	gp := gpu.NewGPU()
	gp.MaxDraws = cf.MaxDraws
	if err := gp.Config(cf.Window.Title, ws); err != nil {
		return err
	}
	defer gp.Release()

	ds := gpu.NewDepthStencil()
	sf, err := gpu.NewSurface(gp, ws, size, ds.Format)
	if err != nil {
		return err
	}
	defer sf.Release()
	sf.Render.ClearColor = color.RGBA{50, 50, 50, 255}
	slog.Debug("gpudemo: surface", "format", sf.Format.String())

	opts := asset.NewOptions(&cf.Pipeline, &cf.Assets[0])
	pd := render.NewPipelineDesc("mesh", src, opts, ds).SetColorFormat(sf.Format.Format)
	pl, err := gp.NewPipeline(pd)
	if err != nil {
		return err
	}
	defer pl.Release()

	as, err := asset.Load(gp, cf.Assets[0].Path, opts)
	if err != nil {
		return err
	}

	keys := input.NewKeyState()
	window.SetKeyCallback(input.GLFWKeyCallback(keys))

	dr := &frame.Driver{
		Camera:      camera.New(&cf.Camera),
		Keys:        keys,
		Passes:      []render.RenderPass{render.NewSinglePass(pl, ds)},
		Asset:       as,
		Target:      &frame.SurfaceTarget{Surface: sf},
		SyncTimeout: cf.SyncWait(),
	}
	defer func() {
		cerrors.Log(dr.Wait())
		gp.WaitDone()
		as.Release()
	}()
	resize = func(size image.Point) {
		cerrors.Log(dr.Resize(size.X, size.Y))
	}

	start := time.Now()
	fpsStart := start
	fpsFrames := 0
	fpsDelay := time.Second / 60
	fpsTicker := time.NewTicker(fpsDelay)
	defer fpsTicker.Stop()
	for range fpsTicker.C {
		if !pollEvents() || keys.IsDown(input.KeyEscape) {
			return nil
		}
		if err := dr.Frame(float32(time.Since(start).Seconds())); err != nil {
			return err
		}
		fpsFrames++
		if dur := time.Since(fpsStart); dur > 10*time.Second {
			slog.Debug("gpudemo", "fps", float64(fpsFrames)/dur.Seconds(), "skipped", dr.Skipped)
			fpsFrames = 0
			fpsStart = time.Now()
		}
	}
	return nil
}
