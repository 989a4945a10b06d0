// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
)

// note: all buffer data is uploaded at creation, so there is no
// mapped memory left pending and no separate flush call.

// BufferKinds describe what a buffer holds.
type BufferKinds int32

const (
	// Interleaved holds position, normal and uv per vertex.
	Interleaved BufferKinds = iota

	// Positions holds only vertex positions (planar packing).
	Positions

	// Normals holds only vertex normals (planar packing).
	Normals

	// UVs holds only texture coordinates (planar packing).
	UVs

	// Indices holds uint32 vertex indices.
	Indices
)

// Usage returns the bind usage for buffers of this kind.
func (bk BufferKinds) Usage() BufferUsages {
	if bk == Indices {
		return IndexUsage
	}
	return VertexUsage
}

func (bk BufferKinds) String() string {
	switch bk {
	case Interleaved:
		return "Interleaved"
	case Positions:
		return "Positions"
	case Normals:
		return "Normals"
	case UVs:
		return "UVs"
	case Indices:
		return "Indices"
	}
	return fmt.Sprintf("BufferKinds(%d)", int32(bk))
}

// Buffer is a GPU buffer of Count elements of Stride bytes each,
// bound at Slot for drawing. It is written once, at creation,
// and owned by the Mesh that created it.
type Buffer struct {
	// Name of the buffer, for debugging.
	Name string

	// Kind is what the buffer holds.
	Kind BufferKinds

	// Storage mode the buffer was created with.
	Storage StorageModes

	// Count is the number of elements.
	Count int

	// Stride is the number of bytes per element.
	Stride int

	// Slot is the vertex input slot this buffer feeds.
	// It is -1 for index buffers.
	Slot int

	handle Resource
}

// NewBuffer creates a buffer on the device holding count elements of
// stride bytes, copying data into it. len(data) must be count*stride.
// An allocation failure is returned and should abort asset loading.
func NewBuffer(dev Device, name string, kind BufferKinds, count, stride int, storage StorageModes, slot int, data []byte) (*Buffer, error) {
	if count <= 0 || stride <= 0 {
		return nil, fmt.Errorf("gpu.NewBuffer %q: %w", name, ErrEmptyBuffer)
	}
	if len(data) != count*stride {
		return nil, fmt.Errorf("gpu.NewBuffer %q: %d bytes for %d x %d: %w", name, len(data), count, stride, ErrBufferSize)
	}
	if kind == Indices {
		slot = -1
	}
	h, err := dev.CreateBuffer(name, kind.Usage(), storage, data)
	if err != nil {
		return nil, fmt.Errorf("gpu.NewBuffer %q: %w", name, err)
	}
	return &Buffer{Name: name, Kind: kind, Storage: storage, Count: count, Stride: stride, Slot: slot, handle: h}, nil
}

// Size returns the size of the buffer in bytes, which is
// always Count * Stride.
func (bf *Buffer) Size() int {
	return bf.Count * bf.Stride
}

// Handle returns the device resource backing the buffer.
func (bf *Buffer) Handle() Resource {
	return bf.handle
}

// Release frees the device buffer.
func (bf *Buffer) Release() {
	if bf.handle == nil {
		return
	}
	bf.handle.Release()
	bf.handle = nil
}
