// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is the presentation surface of a window: it hands out
// one frame at a time to render into and present.
type Surface struct {
	// Format has the current size and texture format of the frames.
	Format TextureFormat

	// Render has the clear values and depth buffer.
	Render Render

	// PresentMode is Fifo (vsync) by default.
	PresentMode wgpu.PresentMode

	surface   *wgpu.Surface
	alphaMode wgpu.CompositeAlphaMode
	gp        *GPU
}

// NewSurface returns a new Surface for the given WebGPU surface,
// configured at the given size with the given depth format
// (UndefinedType for none).
func NewSurface(gp *GPU, ws *wgpu.Surface, size image.Point, depthFmt Types) (*Surface, error) {
	sf := &Surface{gp: gp, surface: ws, PresentMode: wgpu.PresentModeFifo}
	caps := ws.GetCapabilities(gp.Adapter)
	format, alpha, err := surfaceFormat(caps.Formats, caps.AlphaModes)
	if err != nil {
		return nil, err
	}
	sf.Format.Defaults()
	sf.Format.Format = format
	sf.alphaMode = alpha
	sf.Format.Size = size
	sf.configure()
	if err := sf.Render.Config(gp, &sf.Format, depthFmt); err != nil {
		return nil, err
	}
	return sf, nil
}

// surfaceFormat picks an srgb format if the surface has one,
// else its first format, and its first alpha mode.
func surfaceFormat(formats []wgpu.TextureFormat, alphas []wgpu.CompositeAlphaMode) (wgpu.TextureFormat, wgpu.CompositeAlphaMode, error) {
	if len(formats) == 0 || len(alphas) == 0 {
		return 0, 0, fmt.Errorf("gpu.NewSurface: %d formats, %d alpha modes: %w", len(formats), len(alphas), ErrSurfaceUnsupported)
	}
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f, alphas[0], nil
		}
	}
	return formats[0], alphas[0], nil
}

func (sf *Surface) configure() {
	if sf.Format.Size.X == 0 || sf.Format.Size.Y == 0 {
		return
	}
	sf.surface.Configure(sf.gp.Adapter, sf.gp.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      sf.Format.Format,
		Width:       uint32(sf.Format.Size.X),
		Height:      uint32(sf.Format.Size.Y),
		PresentMode: sf.PresentMode,
		AlphaMode:   sf.alphaMode,
	})
}

// Size returns the current frame size.
func (sf *Surface) Size() image.Point {
	return sf.Format.Size
}

// SetSize reconfigures the surface and depth buffer for a new window
// size. Pipelines do not depend on the size and are not rebuilt.
func (sf *Surface) SetSize(size image.Point) {
	if sf.Format.Size == size {
		return
	}
	sf.Format.Size = size
	sf.configure()
	errors.Log(sf.Render.SetSize(size))
}

// Acquire returns the next frame to render into, or nil if there is
// none available right now (e.g., minimized or outdated), which
// means the frame is skipped. It is not an error.
func (sf *Surface) Acquire() *SurfaceFrame {
	if sf.Format.Size.X == 0 || sf.Format.Size.Y == 0 {
		return nil
	}
	tex, err := sf.surface.GetCurrentTexture()
	if err != nil {
		slog.Debug("gpu.Surface: no frame available", "err", err)
		return nil
	}
	vw, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil
	}
	return &SurfaceFrame{sf: sf, texture: tex, view: vw}
}

// Release frees the depth buffer and the surface.
func (sf *Surface) Release() {
	sf.Render.Release()
	if sf.surface != nil {
		sf.surface.Release()
		sf.surface = nil
	}
}

// SurfaceFrame is one acquired surface texture.
type SurfaceFrame struct {
	sf      *Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// Begin starts the render pass into this frame.
func (fr *SurfaceFrame) Begin() (*RenderEncoder, error) {
	return fr.sf.Render.BeginRenderPass(fr.view)
}

// Present shows the frame and releases it.
func (fr *SurfaceFrame) Present() {
	fr.sf.surface.Present()
	fr.Release()
}

// Release drops the frame without presenting it.
func (fr *SurfaceFrame) Release() {
	if fr.view != nil {
		fr.view.Release()
		fr.view = nil
	}
	if fr.texture != nil {
		fr.texture.Release()
		fr.texture = nil
	}
}
