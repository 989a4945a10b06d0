// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"os"
	"path/filepath"
)

// ShaderSource holds the code for the vertex and fragment stages,
// as WGSL text or precompiled SPIR-V. WGSL is used if both are set.
type ShaderSource struct {
	// Name of the shader, for debugging.
	Name string

	// WGSL source code.
	WGSL string

	// SPIRV is precompiled SPIR-V, e.g., from the wgslc tool.
	SPIRV []byte

	// VertexEntry is the name of the vertex entry point.
	VertexEntry string

	// FragmentEntry is the name of the fragment entry point.
	FragmentEntry string
}

// OpenSPIRV sets SPIRV from the given file. The name is set
// to the file name if empty.
func (ss *ShaderSource) OpenSPIRV(fname string) error {
	b, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	ss.SPIRV = b
	if ss.Name == "" {
		ss.Name = filepath.Base(fname)
	}
	return nil
}

// IsEmpty returns true if there is no code.
func (ss *ShaderSource) IsEmpty() bool {
	return ss.WGSL == "" && len(ss.SPIRV) == 0
}

// VertexAttribute is one attribute within a vertex buffer.
type VertexAttribute struct {
	// Type of the attribute, e.g., Float32Vector3.
	Type Types

	// Offset in bytes from the start of the vertex.
	Offset int

	// Location is the shader @location of the attribute.
	Location int
}

// VertexLayout describes the vertex buffer bound at Slot.
type VertexLayout struct {
	// Slot is the vertex input slot. Slot 0 is reserved for the
	// per-draw constants, so buffers start at [VertexSlotBase].
	Slot int

	// Stride is the bytes per vertex.
	Stride int

	// Instance steps the buffer per instance instead of per vertex.
	Instance bool

	// Attributes in the buffer.
	Attributes []VertexAttribute
}

// VertexSlotBase is the first slot available to vertex buffers.
// Slot 0 holds the per-draw constants set with SetVertexBytes.
const VertexSlotBase = 1

// ConstantsSlot is the slot for per-draw constants.
const ConstantsSlot = 0

// CompareFunctions are the depth comparison functions.
type CompareFunctions int32

const (
	CompareLess CompareFunctions = iota
	CompareLessEqual
	CompareAlways
	CompareNever
	CompareGreater
	CompareGreaterEqual
	CompareEqual
	CompareNotEqual
)

// DepthStencil is the immutable depth test and write configuration
// used by a pipeline. Stencil testing is not used.
type DepthStencil struct {
	// Format of the depth texture.
	Format Types

	// Compare is the depth test function.
	Compare CompareFunctions

	// Write enables writing depth.
	Write bool
}

// NewDepthStencil returns the standard depth state: less-than
// test with writes, on a Depth24Plus buffer.
func NewDepthStencil() *DepthStencil {
	return &DepthStencil{Format: Depth24Plus, Compare: CompareLess, Write: true}
}

// Topologies are the different vertex topology
type Topologies int32

const (
	PointList Topologies = iota
	LineList
	LineStrip
	TriangleList
	TriangleStrip
)

func (tp Topologies) String() string {
	switch tp {
	case PointList:
		return "PointList"
	case LineList:
		return "LineList"
	case LineStrip:
		return "LineStrip"
	case TriangleList:
		return "TriangleList"
	case TriangleStrip:
		return "TriangleStrip"
	}
	return fmt.Sprintf("Topologies(%d)", int32(tp))
}

// Pipeline is a compiled render pipeline: shader stages, vertex
// layouts, topology and depth state. It is immutable after creation.
type Pipeline struct {
	// Name of the pipeline, for debugging.
	Name string

	// Topology all draws with this pipeline use.
	Topology Topologies

	// Layouts of the vertex buffers the pipeline reads.
	Layouts []VertexLayout

	// Depth is the depth state compiled into the pipeline.
	// nil if there is no depth buffer.
	Depth *DepthStencil

	handle Resource
}

// Handle returns the device resource backing the pipeline.
func (pl *Pipeline) Handle() Resource {
	return pl.handle
}

// Release frees the compiled pipeline.
func (pl *Pipeline) Release() {
	if pl.handle == nil {
		return
	}
	pl.handle.Release()
	pl.handle = nil
}
