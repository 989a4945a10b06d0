// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "cogentcore.org/core/base/errors"

var (
	// ErrBufferSize is returned when the data given to [NewBuffer]
	// does not match count * stride.
	ErrBufferSize = errors.New("gpu: buffer data size does not match count * stride")

	// ErrEmptyBuffer is returned for a buffer with no elements.
	ErrEmptyBuffer = errors.New("gpu: buffer has no elements")

	// ErrDeviceLost is returned when the wait on a previous frame's
	// sync point does not complete in time.
	ErrDeviceLost = errors.New("gpu: device lost: sync point wait timed out")

	// ErrNoShader is returned when a pipeline has neither WGSL nor SPIR-V source.
	ErrNoShader = errors.New("gpu: pipeline has no shader source")

	// ErrTooManyDraws is returned by Submit when more per-draw
	// constant blocks were recorded than the constants buffer holds.
	ErrTooManyDraws = errors.New("gpu: per-draw constants buffer is full")

	// ErrForeignResource is returned when a resource made by another
	// Device is handed to the WebGPU device.
	ErrForeignResource = errors.New("gpu: resource was not created by this device")

	// ErrSurfaceUnsupported is returned when the adapter reports no
	// formats or alpha modes for a window surface.
	ErrSurfaceUnsupported = errors.New("gpu: surface is not supported by the adapter")
)
