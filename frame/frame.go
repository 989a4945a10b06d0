// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame drives the per-frame loop: wait for the previous
// frame, move the camera for the held keys, acquire a drawable,
// run the render passes, then submit and present.
package frame

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"cogentcore.org/gpudemo/asset"
	"cogentcore.org/gpudemo/camera"
	"cogentcore.org/gpudemo/gpu"
	"cogentcore.org/gpudemo/input"
	"cogentcore.org/gpudemo/render"
)

// Recording is the encoder for one frame, which is either
// submitted or aborted.
type Recording interface {
	gpu.Encoder

	// Submit ends the recording and submits it, returning the
	// sync point that completes when the GPU is done with it.
	Submit() (gpu.SyncPoint, error)

	// Abort drops the recording.
	Abort()
}

// Drawable is one acquired image to render into.
type Drawable interface {
	// Begin starts recording into the drawable.
	Begin() (Recording, error)

	// Present shows the drawable, after its recording is submitted.
	Present()

	// Release drops the drawable without presenting it.
	Release()
}

// Target is where frames are drawn, normally a window surface.
type Target interface {
	// Size is the current size in pixels.
	Size() image.Point

	// SetSize reconfigures the target for a new size.
	SetSize(size image.Point)

	// Acquire returns the next drawable. A nil drawable with a
	// nil error means none is available now, and the frame is skipped.
	Acquire() (Drawable, error)
}

// Driver runs frames. All of its methods must be called from
// the one thread that owns the window and device.
type Driver struct {
	// Camera is updated from the held keys each frame that draws.
	Camera *camera.Camera

	// Keys are the held keys, written by window event callbacks.
	Keys *input.KeyState

	// Passes are run in order each frame.
	Passes []render.RenderPass

	// Asset is drawn by the passes.
	Asset *asset.Asset

	// Target is drawn into.
	Target Target

	// SyncTimeout bounds the wait for the previous frame.
	// Expiry is treated as a lost device. 0 waits without bound.
	SyncTimeout time.Duration

	// Frames is the number of frames presented.
	Frames int

	// Skipped is the number of frames skipped for lack of a
	// drawable or an encoder.
	Skipped int

	// prev is the sync point of the last submitted frame.
	prev gpu.SyncPoint
}

// Wait waits for the previous frame to complete, returning
// [gpu.ErrDeviceLost] if it takes longer than SyncTimeout.
func (dr *Driver) Wait() error {
	if err := gpu.WaitSync(dr.prev, dr.SyncTimeout); err != nil {
		return fmt.Errorf("frame: waiting for frame %d: %w", dr.Frames, err)
	}
	dr.prev = nil
	return nil
}

// Frame renders one frame at the given seconds since launch.
// A frame without a drawable or encoder is skipped, leaving the
// camera unchanged, and is not an error. Errors are fatal.
func (dr *Driver) Frame(time float32) error {
	if err := dr.Wait(); err != nil {
		return err
	}
	// update a copy, committed only if the frame is drawn
	cam := *dr.Camera
	cam.Update(dr.Keys.Snapshot())

	sz := dr.Target.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return dr.skip("zero size")
	}
	dw, err := dr.Target.Acquire()
	if err != nil {
		return err
	}
	if dw == nil {
		return dr.skip("no drawable")
	}
	rec, err := dw.Begin()
	if err != nil {
		dw.Release()
		slog.Debug("frame: begin failed", "err", err)
		return dr.skip("no encoder")
	}
	*dr.Camera = cam

	u := render.NewUniforms(cam.ViewProjection(float32(sz.X)/float32(sz.Y)), time)
	for _, ps := range dr.Passes {
		ps.Render(rec, u, dr.Asset, time)
	}
	sp, err := rec.Submit()
	if err != nil {
		dw.Release()
		return fmt.Errorf("frame: submit: %w", err)
	}
	dr.prev = sp
	dw.Present()
	dr.Frames++
	return nil
}

func (dr *Driver) skip(reason string) error {
	dr.Skipped++
	slog.Debug("frame: skipped", "reason", reason, "skipped", dr.Skipped)
	return nil
}

// Resize reconfigures the target for a new window size,
// after the previous frame completes. Pipelines are unaffected.
func (dr *Driver) Resize(w, h int) error {
	if err := dr.Wait(); err != nil {
		return err
	}
	dr.Target.SetSize(image.Point{w, h})
	return nil
}
