// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/binary"
	"math"

	"cogentcore.org/gpudemo/config"
	"cogentcore.org/gpudemo/gpu"
)

// InterleavedStride is the bytes per vertex of interleaved packing:
// position (12), normal (12), uv (8).
const InterleavedStride = 32

// Offsets of each attribute within an interleaved vertex.
const (
	PositionOffset = 0
	NormalOffset   = 12
	UVOffset       = 24
)

// Shader locations of the vertex attributes.
const (
	PositionLoc = 0
	NormalLoc   = 1
	UVLoc       = 2
)

func putFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// PackInterleaved packs one vertex per InterleavedStride bytes.
// Normals and uvs may be nil, and are then zero.
func PackInterleaved(pos, norm [][3]float32, uv [][2]float32) []byte {
	b := make([]byte, len(pos)*InterleavedStride)
	for i, p := range pos {
		v := b[i*InterleavedStride:]
		for c := range 3 {
			putFloat(v[PositionOffset+4*c:], p[c])
		}
		if i < len(norm) {
			for c := range 3 {
				putFloat(v[NormalOffset+4*c:], norm[i][c])
			}
		}
		if i < len(uv) {
			putFloat(v[UVOffset:], uv[i][0])
			putFloat(v[UVOffset+4:], uv[i][1])
		}
	}
	return b
}

// PackVec3 packs n 3-vectors, zero-filling past the end of vs.
func PackVec3(vs [][3]float32, n int) []byte {
	b := make([]byte, n*12)
	for i := range min(n, len(vs)) {
		for c := range 3 {
			putFloat(b[i*12+4*c:], vs[i][c])
		}
	}
	return b
}

// PackVec2 packs n 2-vectors, zero-filling past the end of vs.
func PackVec2(vs [][2]float32, n int) []byte {
	b := make([]byte, n*8)
	for i := range min(n, len(vs)) {
		putFloat(b[i*8:], vs[i][0])
		putFloat(b[i*8+4:], vs[i][1])
	}
	return b
}

// PackIndices packs uint32 indices.
func PackIndices(idx []uint32) []byte {
	b := make([]byte, len(idx)*4)
	for i, ix := range idx {
		binary.LittleEndian.PutUint32(b[i*4:], ix)
	}
	return b
}

// Layouts returns the vertex layouts matching the buffers that
// [Import] makes with the given options, for building the pipeline.
func Layouts(opts Options) []gpu.VertexLayout {
	if opts.Packing == config.Interleaved {
		return []gpu.VertexLayout{{
			Slot:   gpu.VertexSlotBase,
			Stride: InterleavedStride,
			Attributes: []gpu.VertexAttribute{
				{Type: gpu.Float32Vector3, Offset: PositionOffset, Location: PositionLoc},
				{Type: gpu.Float32Vector3, Offset: NormalOffset, Location: NormalLoc},
				{Type: gpu.Float32Vector2, Offset: UVOffset, Location: UVLoc},
			},
		}}
	}
	slot := gpu.VertexSlotBase
	ls := []gpu.VertexLayout{{
		Slot:       slot,
		Stride:     12,
		Attributes: []gpu.VertexAttribute{{Type: gpu.Float32Vector3, Location: PositionLoc}},
	}}
	if opts.IncludeNormals {
		slot++
		ls = append(ls, gpu.VertexLayout{
			Slot:       slot,
			Stride:     12,
			Attributes: []gpu.VertexAttribute{{Type: gpu.Float32Vector3, Location: NormalLoc}},
		})
	}
	slot++
	ls = append(ls, gpu.VertexLayout{
		Slot:       slot,
		Stride:     8,
		Attributes: []gpu.VertexAttribute{{Type: gpu.Float32Vector2, Location: UVLoc}},
	})
	return ls
}
