// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Types is a list of supported GPU data types, used for vertex
// attributes, index buffers and texture formats.
// Note that a Vector3 is only properly aligned for vertex data,
// not for uniforms, which need 16 byte alignment.
type Types int32

const (
	UndefinedType Types = iota

	Uint16
	Uint32

	Float32
	Float32Vector2
	Float32Vector3 // note: only use for vertex data -- not properly aligned for uniforms
	Float32Vector4

	Float32Matrix4 // std transform matrix: mgl32.Mat4 works directly

	TextureRGBA32 // 32 bits with 8 bits per component of R,G,B,A -- std image format
	TextureBGRA32

	Depth32         // standard float32 depth buffer
	Depth24Plus     // 24 bit depth, the WebGPU default
	Depth24Stencil8 // standard 24 bit float with 8 bit stencil
)

// VertexFormat returns the WebGPU VertexFormat for given type.
func (tp Types) VertexFormat() wgpu.VertexFormat {
	return TypeToVertexFormat[tp]
}

// TextureFormat returns the WebGPU TextureFormat for given type.
func (tp Types) TextureFormat() wgpu.TextureFormat {
	return TypeToTextureFormat[tp]
}

// IndexType returns the WebGPU IndexFormat for Index buffers.
// must be either Uint16 or Uint32.
func (tp Types) IndexType() wgpu.IndexFormat {
	if tp == Uint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// Bytes returns number of bytes for this type
func (tp Types) Bytes() int {
	return TypeSizes[tp]
}

// IsDepth returns true if this is a depth texture type.
func (tp Types) IsDepth() bool {
	return tp == Depth32 || tp == Depth24Plus || tp == Depth24Stencil8
}

var TypeToTextureFormat = map[Types]wgpu.TextureFormat{
	TextureRGBA32:   wgpu.TextureFormatRGBA8UnormSrgb,
	TextureBGRA32:   wgpu.TextureFormatBGRA8UnormSrgb,
	Depth32:         wgpu.TextureFormatDepth32Float,
	Depth24Plus:     wgpu.TextureFormatDepth24Plus,
	Depth24Stencil8: wgpu.TextureFormatDepth24PlusStencil8,
}

// TypeSizes gives our data type sizes in bytes
var TypeSizes = map[Types]int{
	Uint16: 2,
	Uint32: 4,

	Float32:        4,
	Float32Vector2: 8,
	Float32Vector3: 12,
	Float32Vector4: 16,

	Float32Matrix4: 64,

	TextureRGBA32: 4,
	TextureBGRA32: 4,

	Depth32:         4,
	Depth24Plus:     4,
	Depth24Stencil8: 4,
}

// TypeToVertexFormat maps gpu.Types to WebGPU VertexFormat
var TypeToVertexFormat = map[Types]wgpu.VertexFormat{
	UndefinedType:  wgpu.VertexFormatUndefined,
	Uint32:         wgpu.VertexFormatUint32,
	Float32:        wgpu.VertexFormatFloat32,
	Float32Vector2: wgpu.VertexFormatFloat32x2,
	Float32Vector3: wgpu.VertexFormatFloat32x3,
	Float32Vector4: wgpu.VertexFormatFloat32x4,
}
