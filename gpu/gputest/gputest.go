// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gputest provides a [gpu.Device] that keeps resources in
// host memory and a [gpu.Encoder] that records commands, for testing
// meshes, assets and render passes without a GPU.
package gputest

import (
	"image"
	"slices"
	"sync"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/gpudemo/gpu"
)

// ErrAlloc is returned by [Device] when FailAfter is reached.
var ErrAlloc = errors.New("gputest: allocation failed")

// Device is a [gpu.Device] that keeps buffer and texture data in
// host memory.
type Device struct {
	// FailAfter makes every create call after this many succeed
	// fail with [ErrAlloc]. 0 means never fail.
	FailAfter int

	// Buffers are all the buffers created, in order.
	Buffers []*Buffer

	// Textures are all the textures created, in order.
	Textures []*Texture

	calls int
}

func (d *Device) fail() bool {
	d.calls++
	return d.FailAfter > 0 && d.calls > d.FailAfter
}

func (d *Device) CreateBuffer(label string, usage gpu.BufferUsages, storage gpu.StorageModes, data []byte) (gpu.Resource, error) {
	if d.fail() {
		return nil, ErrAlloc
	}
	b := &Buffer{Name: label, Usage: usage, Storage: storage, Data: slices.Clone(data)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateTexture(label string, levels []*image.RGBA, srgb bool) (gpu.Resource, error) {
	if d.fail() {
		return nil, ErrAlloc
	}
	t := &Texture{Name: label, Levels: levels, SRGB: srgb}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// Released returns the number of released buffers and textures.
func (d *Device) Released() int {
	n := 0
	for _, b := range d.Buffers {
		if b.Released {
			n++
		}
	}
	for _, t := range d.Textures {
		if t.Released {
			n++
		}
	}
	return n
}

// Buffer is the host memory copy of a buffer.
type Buffer struct {
	Name     string
	Usage    gpu.BufferUsages
	Storage  gpu.StorageModes
	Data     []byte
	Released bool
}

func (b *Buffer) Label() string { return b.Name }
func (b *Buffer) Release()      { b.Released = true }

// Texture is the host memory copy of a texture.
type Texture struct {
	Name     string
	Levels   []*image.RGBA
	SRGB     bool
	Released bool
}

func (t *Texture) Label() string { return t.Name }
func (t *Texture) Release()      { t.Released = true }

// BufferData returns the bytes uploaded for the given buffer,
// which must have been made by a [Device].
func BufferData(buf *gpu.Buffer) []byte {
	b, ok := buf.Handle().(*Buffer)
	if !ok {
		return nil
	}
	return b.Data
}

// NewPipeline returns a TriangleList pipeline with the standard
// depth state and the given vertex layouts, with no device object.
func NewPipeline(name string, layouts ...gpu.VertexLayout) *gpu.Pipeline {
	return &gpu.Pipeline{
		Name:     name,
		Topology: gpu.TriangleList,
		Layouts:  layouts,
		Depth:    gpu.NewDepthStencil(),
	}
}

// SyncPoint is a [gpu.SyncPoint] that takes Delay to complete.
type SyncPoint struct {
	Delay time.Duration

	mu    sync.Mutex
	waits int
}

func (sp *SyncPoint) Wait() {
	time.Sleep(sp.Delay)
	sp.mu.Lock()
	sp.waits++
	sp.mu.Unlock()
}

// Waits returns the number of completed waits.
func (sp *SyncPoint) Waits() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.waits
}
