// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineDesc has all the settings for compiling a [Pipeline].
// Use the Set* methods, which return the desc for chaining.
type PipelineDesc struct {
	// Name of the pipeline, for debugging.
	Name string

	// Shader code for the vertex and fragment stages.
	Shader ShaderSource

	// Layouts of the vertex buffers, with slots starting at
	// [VertexSlotBase] with no gaps.
	Layouts []VertexLayout

	// Topology of the vertex data. TriangleList is the default.
	Topology Topologies

	// FrontFace is the winding order of front faces.
	FrontFace wgpu.FrontFace

	// CullMode is the face culling mode.
	CullMode wgpu.CullMode

	// Depth is the depth state; nil for no depth buffer.
	Depth *DepthStencil

	// ColorFormat is the format of the color target,
	// normally the surface format.
	ColorFormat wgpu.TextureFormat
}

// NewPipelineDesc returns a new PipelineDesc with graphics defaults.
func NewPipelineDesc(name string) *PipelineDesc {
	pd := &PipelineDesc{Name: name}
	pd.SetGraphicsDefaults()
	return pd
}

// SetGraphicsDefaults configures all the default settings for a
// graphics rendering pipeline.
func (pd *PipelineDesc) SetGraphicsDefaults() *PipelineDesc {
	pd.SetTopology(TriangleList)
	pd.SetFrontFace(wgpu.FrontFaceCCW)
	pd.SetCullMode(wgpu.CullModeBack)
	pd.ColorFormat = wgpu.TextureFormatBGRA8UnormSrgb
	return pd
}

// SetTopology sets the topology of vertex position data.
// TriangleList is the default.
func (pd *PipelineDesc) SetTopology(topo Topologies) *PipelineDesc {
	pd.Topology = topo
	return pd
}

// SetFrontFace sets the winding order for what counts as a front face.
func (pd *PipelineDesc) SetFrontFace(face wgpu.FrontFace) *PipelineDesc {
	pd.FrontFace = face
	return pd
}

// SetCullMode sets the face culling mode.
func (pd *PipelineDesc) SetCullMode(mode wgpu.CullMode) *PipelineDesc {
	pd.CullMode = mode
	return pd
}

// SetDepthStencil sets the depth state compiled into the pipeline.
func (pd *PipelineDesc) SetDepthStencil(ds *DepthStencil) *PipelineDesc {
	pd.Depth = ds
	return pd
}

// SetColorFormat sets the color target format.
func (pd *PipelineDesc) SetColorFormat(format wgpu.TextureFormat) *PipelineDesc {
	pd.ColorFormat = format
	return pd
}

// AddVertexLayout adds the layout of one vertex buffer.
func (pd *PipelineDesc) AddVertexLayout(vl VertexLayout) *PipelineDesc {
	pd.Layouts = append(pd.Layouts, vl)
	return pd
}

// vertexState returns the WebGPU vertex buffer layouts, indexed by
// slot - VertexSlotBase.
func (pd *PipelineDesc) vertexState() ([]wgpu.VertexBufferLayout, error) {
	lays := slices.Clone(pd.Layouts)
	slices.SortFunc(lays, func(a, b VertexLayout) int { return a.Slot - b.Slot })
	vbl := make([]wgpu.VertexBufferLayout, len(lays))
	for i, vl := range lays {
		if vl.Slot != VertexSlotBase+i {
			return nil, fmt.Errorf("gpu.PipelineDesc %q: vertex slots must start at %d with no gaps, got slot %d", pd.Name, VertexSlotBase, vl.Slot)
		}
		attrs := make([]wgpu.VertexAttribute, len(vl.Attributes))
		for ai, at := range vl.Attributes {
			attrs[ai] = wgpu.VertexAttribute{
				Format:         at.Type.VertexFormat(),
				Offset:         uint64(at.Offset),
				ShaderLocation: uint32(at.Location),
			}
		}
		step := wgpu.VertexStepModeVertex
		if vl.Instance {
			step = wgpu.VertexStepModeInstance
		}
		vbl[i] = wgpu.VertexBufferLayout{
			ArrayStride: uint64(vl.Stride),
			StepMode:    step,
			Attributes:  attrs,
		}
	}
	return vbl, nil
}

// NewPipeline compiles the shader and the render pipeline described
// by pd. This happens once at startup: any error is fatal.
func (gp *GPU) NewPipeline(pd *PipelineDesc) (*Pipeline, error) {
	if pd.Shader.IsEmpty() {
		return nil, fmt.Errorf("gpu.NewPipeline %q: %w", pd.Name, ErrNoShader)
	}
	vbl, err := pd.vertexState()
	if errors.Log(err) != nil {
		return nil, err
	}
	smd := &wgpu.ShaderModuleDescriptor{Label: pd.Shader.Name}
	if pd.Shader.WGSL != "" {
		smd.WGSLDescriptor = &wgpu.ShaderModuleWGSLDescriptor{Code: pd.Shader.WGSL}
	} else {
		smd.SPIRVDescriptor = &wgpu.ShaderModuleSPIRVDescriptor{Code: pd.Shader.SPIRV}
	}
	module, err := gp.Device.CreateShaderModule(smd)
	if errors.Log(err) != nil {
		return nil, fmt.Errorf("gpu.NewPipeline %q: shader %q: %w", pd.Name, pd.Shader.Name, err)
	}
	layout, err := gp.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            pd.Name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{gp.constLayout, gp.textureLayout},
	})
	if errors.Log(err) != nil {
		module.Release()
		return nil, err
	}
	rpd := &wgpu.RenderPipelineDescriptor{
		Label:  pd.Name,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: pd.Shader.VertexEntry,
			Buffers:    vbl,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: pd.Shader.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    pd.ColorFormat,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  pd.Topology.Primitive(),
			FrontFace: pd.FrontFace,
			CullMode:  pd.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}
	if pd.Depth != nil {
		rpd.DepthStencil = pd.Depth.state()
	}
	rp, err := gp.Device.CreateRenderPipeline(rpd)
	if err != nil {
		slog.Error(err.Error())
		layout.Release()
		module.Release()
		return nil, fmt.Errorf("gpu.NewPipeline %q: %w", pd.Name, err)
	}
	pl := &Pipeline{
		Name:     pd.Name,
		Topology: pd.Topology,
		Layouts:  slices.Clone(pd.Layouts),
		handle:   &wgpuPipeline{label: pd.Name, pipeline: rp, layout: layout, module: module},
	}
	if pd.Depth != nil {
		ds := *pd.Depth
		pl.Depth = &ds
	}
	return pl, nil
}

// state returns the WebGPU depth stencil state.
func (ds *DepthStencil) state() *wgpu.DepthStencilState {
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return &wgpu.DepthStencilState{
		Format:            ds.Format.TextureFormat(),
		DepthWriteEnabled: ds.Write,
		DepthCompare:      WebGPUCompares[ds.Compare],
		StencilFront:      keep,
		StencilBack:       keep,
	}
}

var WebGPUCompares = map[CompareFunctions]wgpu.CompareFunction{
	CompareLess:         wgpu.CompareFunctionLess,
	CompareLessEqual:    wgpu.CompareFunctionLessEqual,
	CompareAlways:       wgpu.CompareFunctionAlways,
	CompareNever:        wgpu.CompareFunctionNever,
	CompareGreater:      wgpu.CompareFunctionGreater,
	CompareGreaterEqual: wgpu.CompareFunctionGreaterEqual,
	CompareEqual:        wgpu.CompareFunctionEqual,
	CompareNotEqual:     wgpu.CompareFunctionNotEqual,
}

func (tp Topologies) Primitive() wgpu.PrimitiveTopology {
	return WebGPUTopologies[tp]
}

var WebGPUTopologies = map[Topologies]wgpu.PrimitiveTopology{
	PointList:     wgpu.PrimitiveTopologyPointList,
	LineList:      wgpu.PrimitiveTopologyLineList,
	LineStrip:     wgpu.PrimitiveTopologyLineStrip,
	TriangleList:  wgpu.PrimitiveTopologyTriangleList,
	TriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
}
