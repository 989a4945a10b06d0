// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
)

// Resource is an owned GPU object, such as a buffer or texture.
// The owner calls Release exactly once, when it is done with it.
type Resource interface {
	// Label is the debugging name given at creation.
	Label() string

	// Release frees the device memory.
	Release()
}

// Device creates the GPU resources used by meshes and assets.
// [GPU] is the WebGPU implementation; tests use gputest.Device.
type Device interface {
	// CreateBuffer allocates a buffer of len(data) bytes with the given
	// usage and uploads data into it before returning.
	CreateBuffer(label string, usage BufferUsages, storage StorageModes, data []byte) (Resource, error)

	// CreateTexture allocates a 2D RGBA texture with len(levels) mip
	// levels and uploads each level. levels[0] is the full size image.
	// srgb textures are decoded to linear when sampled; others, such
	// as metallic-roughness maps, are sampled as stored.
	CreateTexture(label string, levels []*image.RGBA, srgb bool) (Resource, error)
}

// StorageModes determine where buffer memory lives and whether the
// CPU may write to it after creation.
type StorageModes int32

const (
	// StorageShared memory stays writable from the CPU after creation
	// (the buffer also gets CopyDst usage).
	StorageShared StorageModes = iota

	// StoragePrivate memory is only written once, at creation.
	StoragePrivate
)

// BufferUsages are the ways a buffer is bound for drawing.
type BufferUsages int32

const (
	VertexUsage BufferUsages = iota
	IndexUsage
	UniformUsage
)
