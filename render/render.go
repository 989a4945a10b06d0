// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render provides render passes, which record the draw
// commands for an asset into a [gpu.Encoder].
package render

import (
	"encoding/binary"
	"math"

	"cogentcore.org/gpudemo/asset"
	"cogentcore.org/gpudemo/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformsSize is the size in bytes of the uniform block: two
// mat4 and the time, padded to 16 bytes.
const UniformsSize = 144

// Uniforms are the constants for one draw.
type Uniforms struct {
	// ViewProj is the camera view-projection matrix.
	ViewProj mgl32.Mat4

	// Model places the whole asset in the world. Each mesh's own
	// Model is applied first. Identity for no extra placement.
	Model mgl32.Mat4

	// Time is the seconds elapsed since launch.
	Time float32
}

// NewUniforms returns uniforms for the given view-projection,
// with an identity Model.
func NewUniforms(viewProj mgl32.Mat4, time float32) Uniforms {
	return Uniforms{ViewProj: viewProj, Model: mgl32.Ident4(), Time: time}
}

// Bytes returns the uniforms in the shader layout: column-major
// matrices, little-endian floats.
func (u *Uniforms) Bytes() []byte {
	b := make([]byte, UniformsSize)
	for i, v := range u.ViewProj {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	for i, v := range u.Model {
		binary.LittleEndian.PutUint32(b[64+4*i:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(b[128:], math.Float32bits(u.Time))
	return b
}

// RenderPass records the draws for an asset. Implementations hold
// only immutable state, so rendering the same asset twice records
// the same commands.
type RenderPass interface {
	Render(enc gpu.Encoder, u Uniforms, a *asset.Asset, time float32)
}

// SinglePass draws every mesh of an asset with one pipeline and
// depth state, in import order.
type SinglePass struct {
	pipeline *gpu.Pipeline
	depth    *gpu.DepthStencil
}

// NewSinglePass returns a pass using the given pipeline and depth state.
func NewSinglePass(pl *gpu.Pipeline, ds *gpu.DepthStencil) *SinglePass {
	return &SinglePass{pipeline: pl, depth: ds}
}

// Pipeline returns the pipeline of the pass.
func (sp *SinglePass) Pipeline() *gpu.Pipeline { return sp.pipeline }

// DepthStencil returns the depth state of the pass.
func (sp *SinglePass) DepthStencil() *gpu.DepthStencil { return sp.depth }

// Render binds the pipeline and depth state once, then for each mesh
// sets its constants, texture (nil clears the previous mesh's) and
// vertex buffers, and draws it.
func (sp *SinglePass) Render(enc gpu.Encoder, u Uniforms, a *asset.Asset, time float32) {
	enc.SetPipeline(sp.pipeline)
	enc.SetDepthStencil(sp.depth)
	if a == nil {
		return
	}
	for _, ms := range a.Meshes {
		mu := Uniforms{ViewProj: u.ViewProj, Model: u.Model.Mul4(ms.Model), Time: time}
		enc.SetVertexBytes(gpu.ConstantsSlot, mu.Bytes())
		enc.SetFragmentTexture(ms.Texture, 0)
		for _, b := range ms.Buffers {
			enc.SetVertexBuffer(b.Slot, b)
		}
		enc.DrawIndexed(ms.Topology, ms.IndexCount, ms.Index)
	}
}

// NewPipelineDesc returns the description of the pipeline for
// meshes imported with the given options, drawn with the given
// shader and depth state.
func NewPipelineDesc(name string, src gpu.ShaderSource, opts asset.Options, ds *gpu.DepthStencil) *gpu.PipelineDesc {
	pd := gpu.NewPipelineDesc(name).SetDepthStencil(ds).SetTopology(asset.Topology)
	pd.Shader = src
	for _, vl := range asset.Layouts(opts) {
		pd.AddVertexLayout(vl)
	}
	return pd
}
