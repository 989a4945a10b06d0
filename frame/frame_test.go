// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"image"
	"testing"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/gpudemo/asset"
	"cogentcore.org/gpudemo/camera"
	"cogentcore.org/gpudemo/config"
	"cogentcore.org/gpudemo/gpu"
	"cogentcore.org/gpudemo/gpu/gputest"
	"cogentcore.org/gpudemo/input"
	"cogentcore.org/gpudemo/render"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recording struct {
	gputest.Recorder
	sync      gpu.SyncPoint
	submitted bool
	aborted   bool
}

func (r *recording) Submit() (gpu.SyncPoint, error) {
	r.submitted = true
	return r.sync, nil
}

func (r *recording) Abort() { r.aborted = true }

type drawable struct {
	rec       *recording
	beginErr  error
	presented bool
	released  bool
}

func (d *drawable) Begin() (Recording, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.rec, nil
}

func (d *drawable) Present() { d.presented = true }
func (d *drawable) Release() { d.released = true }

type target struct {
	size     image.Point
	next     *drawable
	acquired int
}

func (t *target) Size() image.Point        { return t.size }
func (t *target) SetSize(size image.Point) { t.size = size }

func (t *target) Acquire() (Drawable, error) {
	t.acquired++
	if t.next == nil {
		return nil, nil
	}
	return t.next, nil
}

type pass struct {
	calls    int
	uniforms render.Uniforms
	asset    *asset.Asset
	time     float32
}

func (p *pass) Render(enc gpu.Encoder, u render.Uniforms, a *asset.Asset, time float32) {
	p.calls++
	p.uniforms = u
	p.asset = a
	p.time = time
}

func newDriver() (*Driver, *target, *pass) {
	cf := config.New()
	tg := &target{size: image.Point{800, 600}}
	ps := &pass{}
	dr := &Driver{
		Camera:      camera.New(&cf.Camera),
		Keys:        input.NewKeyState(),
		Passes:      []render.RenderPass{ps},
		Asset:       &asset.Asset{Name: "empty"},
		Target:      tg,
		SyncTimeout: time.Second,
	}
	return dr, tg, ps
}

func TestFrame(t *testing.T) {
	dr, tg, ps := newDriver()
	sp := &gputest.SyncPoint{}
	dw := &drawable{rec: &recording{sync: sp}}
	tg.next = dw
	dr.Camera.MoveSpeed = 1
	dr.Keys.Press(input.KeyW)
	start := dr.Camera.Position

	require.NoError(t, dr.Frame(1.25))
	assert.Equal(t, 1, ps.calls)
	assert.Same(t, dr.Asset, ps.asset)
	assert.Equal(t, float32(1.25), ps.time)
	assert.Equal(t, float32(1.25), ps.uniforms.Time)
	assert.Equal(t, mgl32.Ident4(), ps.uniforms.Model)
	assert.Equal(t, dr.Camera.ViewProjection(800.0/600.0), ps.uniforms.ViewProj)
	assert.InDelta(t, start[2]-1, dr.Camera.Position[2], 1e-5)
	assert.True(t, dw.rec.submitted)
	assert.True(t, dw.presented)
	assert.False(t, dw.released)
	assert.Equal(t, 1, dr.Frames)

	// the next frame waits for the previous one
	require.NoError(t, dr.Frame(1.5))
	assert.Equal(t, 1, sp.Waits())
	assert.Equal(t, 2, ps.calls)
}

func TestFrameNoDrawable(t *testing.T) {
	dr, tg, ps := newDriver()
	dr.Keys.Press(input.KeyW)
	dr.Keys.Press(input.KeyE)
	before := *dr.Camera

	require.NoError(t, dr.Frame(0))
	assert.Equal(t, 1, tg.acquired)
	assert.Equal(t, before, *dr.Camera)
	assert.Equal(t, 0, ps.calls)
	assert.Equal(t, 0, dr.Frames)
	assert.Equal(t, 1, dr.Skipped)

	tg.size = image.Point{}
	require.NoError(t, dr.Frame(0))
	assert.Equal(t, 1, tg.acquired)
	assert.Equal(t, before, *dr.Camera)
	assert.Equal(t, 2, dr.Skipped)
}

func TestFrameNoEncoder(t *testing.T) {
	dr, tg, ps := newDriver()
	dw := &drawable{beginErr: errors.New("no command buffer")}
	tg.next = dw
	dr.Keys.Press(input.KeyW)
	before := *dr.Camera

	require.NoError(t, dr.Frame(0))
	assert.True(t, dw.released)
	assert.False(t, dw.presented)
	assert.Equal(t, before, *dr.Camera)
	assert.Equal(t, 0, ps.calls)
	assert.Equal(t, 1, dr.Skipped)
}

func TestFrameDeviceLost(t *testing.T) {
	dr, tg, ps := newDriver()
	tg.next = &drawable{rec: &recording{sync: &gputest.SyncPoint{Delay: 500 * time.Millisecond}}}
	dr.SyncTimeout = 5 * time.Millisecond
	require.NoError(t, dr.Frame(0))

	err := dr.Frame(0)
	assert.ErrorIs(t, err, gpu.ErrDeviceLost)
	assert.Equal(t, 1, ps.calls)
	assert.Equal(t, 1, tg.acquired)
}

func TestFrameKeepsAsset(t *testing.T) {
	dr, tg, ps := newDriver()
	as := dr.Asset
	for i := range 3 {
		tg.next = &drawable{rec: &recording{}}
		require.NoError(t, dr.Frame(float32(i)))
		assert.Same(t, as, ps.asset)
	}
	require.NoError(t, dr.Resize(640, 480))
	assert.Same(t, as, dr.Asset)
	assert.Equal(t, 3, ps.calls)
}

func TestResize(t *testing.T) {
	dr, tg, _ := newDriver()
	require.NoError(t, dr.Resize(1024, 768))
	assert.Equal(t, image.Point{1024, 768}, tg.size)
}

func TestFrameRender(t *testing.T) {
	dr, tg, _ := newDriver()
	dw := &drawable{rec: &recording{}}
	tg.next = dw
	opts := asset.Options{IncludeNormals: true}
	dr.Passes = []render.RenderPass{render.NewSinglePass(gputest.NewPipeline("mesh", asset.Layouts(opts)...), gpu.NewDepthStencil())}
	require.NoError(t, dr.Frame(0))
	assert.Equal(t, []gputest.Ops{gputest.SetPipeline, gputest.SetDepthStencil}, dw.rec.Ops())
}
