// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug turns on extra logging of device setup and per-frame events.
var Debug = false

// theInstance is the one WebGPU instance for the process.
var theInstance *wgpu.Instance

// Instance returns the WebGPU instance, creating it the first time.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

const (
	// ConstantsAlign is the byte stride between per-draw constant
	// blocks in the constants buffer, which is the WebGPU default
	// minUniformBufferOffsetAlignment. It is also the largest
	// block SetVertexBytes accepts.
	ConstantsAlign = 256

	// ConstantsGroup is the bind group index of the per-draw constants.
	ConstantsGroup = 0

	// TextureGroup is the bind group index of fragment texture slot 0.
	TextureGroup = 1
)

// GPU is the WebGPU device, queue and shared binding state used
// to create resources and record frames. It implements [Device].
type GPU struct {
	// Name of the program, used as the device label.
	Name string

	// MaxDraws is the number of per-draw constant blocks one frame
	// can record. Must be set before Config.
	MaxDraws int

	// Adapter is the physical GPU chosen.
	Adapter *wgpu.Adapter

	// Device is the logical device.
	Device *wgpu.Device

	// Queue is the device queue for uploads and submission.
	Queue *wgpu.Queue

	// constLayout is the bind group layout for per-draw constants.
	constLayout *wgpu.BindGroupLayout

	// textureLayout is the bind group layout for a sampled texture.
	textureLayout *wgpu.BindGroupLayout

	// sampler is shared by all textures: linear, repeat, mipmapped.
	sampler *wgpu.Sampler

	// constants holds the per-draw constant blocks of one frame.
	constants *wgpu.Buffer

	// constGroup binds constants with a dynamic offset per draw.
	constGroup *wgpu.BindGroup

	// blank is the 1x1 white texture bound when a mesh has none.
	blank *Texture
}

// NewGPU returns a new GPU with default settings.
// Call Config to create the device.
func NewGPU() *GPU {
	return &GPU{MaxDraws: 1024}
}

// Config requests an adapter compatible with the given surface
// (which can be nil for offscreen use) and a device with default
// limits, and creates the shared binding state.
// All failures here are fatal setup errors.
func (gp *GPU) Config(name string, surface *wgpu.Surface) error {
	gp.Name = name
	if gp.MaxDraws <= 0 {
		gp.MaxDraws = 1024
	}
	a, err := Instance().RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if errors.Log(err) != nil {
		return fmt.Errorf("gpu: request adapter: %w", err)
	}
	gp.Adapter = a
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: name,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if errors.Log(err) != nil {
		return fmt.Errorf("gpu: request device: %w", err)
	}
	gp.Device = d
	gp.Queue = d.GetQueue()
	if Debug {
		slog.Info("gpu: device ready", "name", name, "maxDraws", gp.MaxDraws)
	}
	return gp.configBindings()
}

// configBindings makes the bind group layouts, the shared sampler,
// the constants buffer and the blank texture.
func (gp *GPU) configBindings() error {
	var err error
	gp.constLayout, err = gp.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "constants",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
			},
		}},
	})
	if errors.Log(err) != nil {
		return err
	}
	gp.textureLayout, err = gp.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "texture",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	gp.sampler, err = gp.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "texture",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if errors.Log(err) != nil {
		return err
	}
	gp.constants, err = gp.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "constants",
		Size:  uint64(gp.MaxDraws * ConstantsAlign),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return err
	}
	gp.constGroup, err = gp.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "constants",
		Layout: gp.constLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  gp.constants,
			Offset:  0,
			Size:    ConstantsAlign,
		}},
	})
	if errors.Log(err) != nil {
		return err
	}
	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	white.Set(0, 0, color.White)
	gp.blank, err = NewTexture(gp, "blank", white, false, true)
	return errors.Log(err)
}

// CreateBuffer implements [Device], uploading data with
// CreateBufferInit so it is ready when this returns.
func (gp *GPU) CreateBuffer(label string, usage BufferUsages, storage StorageModes, data []byte) (Resource, error) {
	var bu wgpu.BufferUsage
	switch usage {
	case IndexUsage:
		bu = wgpu.BufferUsageIndex
	case UniformUsage:
		bu = wgpu.BufferUsageUniform
	default:
		bu = wgpu.BufferUsageVertex
	}
	if storage == StorageShared {
		bu |= wgpu.BufferUsageCopyDst
	}
	buf, err := gp.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    bu,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	return &wgpuBuffer{label: label, buffer: buf}, nil
}

// CreateTexture implements [Device], creating an RGBA texture
// with one mip level per image and a bind group for sampling it.
func (gp *GPU) CreateTexture(label string, levels []*image.RGBA, srgb bool) (Resource, error) {
	sz := levels[0].Rect.Size()
	t, err := gp.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(sz.X),
			Height:             uint32(sz.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: uint32(len(levels)),
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        RGBAFormat(srgb),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	for i, lv := range levels {
		lsz := lv.Rect.Size()
		// https://www.w3.org/TR/webgpu/#gpuimagecopytexture
		gp.Queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Aspect:   wgpu.TextureAspectAll,
				Texture:  t,
				MipLevel: uint32(i),
				Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
			},
			lv.Pix,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(lv.Stride),
				RowsPerImage: uint32(lsz.Y),
			},
			&wgpu.Extent3D{
				Width:              uint32(lsz.X),
				Height:             uint32(lsz.Y),
				DepthOrArrayLayers: 1,
			},
		)
	}
	vw, err := t.CreateView(nil)
	if errors.Log(err) != nil {
		t.Release()
		return nil, err
	}
	bg, err := gp.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: gp.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: vw},
			{Binding: 1, Sampler: gp.sampler},
		},
	})
	if errors.Log(err) != nil {
		vw.Release()
		t.Release()
		return nil, err
	}
	return &wgpuTexture{label: label, texture: t, view: vw, group: bg}, nil
}

// WaitDone waits until all submitted work is done.
func (gp *GPU) WaitDone() {
	gp.Device.Poll(true, nil)
}

// Release frees the shared state and the device.
func (gp *GPU) Release() {
	if gp.blank != nil {
		gp.blank.Release()
		gp.blank = nil
	}
	if gp.constGroup != nil {
		gp.constGroup.Release()
		gp.constGroup = nil
	}
	if gp.constants != nil {
		gp.constants.Release()
		gp.constants = nil
	}
	if gp.sampler != nil {
		gp.sampler.Release()
		gp.sampler = nil
	}
	if gp.textureLayout != nil {
		gp.textureLayout.Release()
		gp.textureLayout = nil
	}
	if gp.constLayout != nil {
		gp.constLayout.Release()
		gp.constLayout = nil
	}
	if gp.Queue != nil {
		gp.Queue.Release()
		gp.Queue = nil
	}
	if gp.Device != nil {
		gp.Device.Release()
		gp.Device = nil
	}
	if gp.Adapter != nil {
		gp.Adapter.Release()
		gp.Adapter = nil
	}
}

// wgpuBuffer is the [Resource] for a WebGPU buffer.
type wgpuBuffer struct {
	label  string
	buffer *wgpu.Buffer
}

func (wb *wgpuBuffer) Label() string { return wb.label }

func (wb *wgpuBuffer) Release() {
	if wb.buffer != nil {
		wb.buffer.Release()
		wb.buffer = nil
	}
}

// wgpuTexture is the [Resource] for a WebGPU texture, with its
// view and the bind group used to sample it.
type wgpuTexture struct {
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
	group   *wgpu.BindGroup
}

func (wt *wgpuTexture) Label() string { return wt.label }

func (wt *wgpuTexture) Release() {
	if wt.group != nil {
		wt.group.Release()
		wt.group = nil
	}
	if wt.view != nil {
		wt.view.Release()
		wt.view = nil
	}
	if wt.texture != nil {
		wt.texture.Release()
		wt.texture = nil
	}
}

// wgpuPipeline is the [Resource] for a WebGPU render pipeline.
type wgpuPipeline struct {
	label    string
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	module   *wgpu.ShaderModule
}

func (wp *wgpuPipeline) Label() string { return wp.label }

func (wp *wgpuPipeline) Release() {
	if wp.pipeline != nil {
		wp.pipeline.Release()
		wp.pipeline = nil
	}
	if wp.layout != nil {
		wp.layout.Release()
		wp.layout = nil
	}
	if wp.module != nil {
		wp.module.Release()
		wp.module = nil
	}
}
