// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gputest

import (
	"fmt"
	"slices"

	"cogentcore.org/gpudemo/gpu"
)

// Ops are the recorded [gpu.Encoder] operations.
type Ops int32

const (
	SetPipeline Ops = iota
	SetDepthStencil
	SetVertexBytes
	SetFragmentTexture
	SetVertexBuffer
	DrawIndexed
)

func (op Ops) String() string {
	switch op {
	case SetPipeline:
		return "SetPipeline"
	case SetDepthStencil:
		return "SetDepthStencil"
	case SetVertexBytes:
		return "SetVertexBytes"
	case SetFragmentTexture:
		return "SetFragmentTexture"
	case SetVertexBuffer:
		return "SetVertexBuffer"
	case DrawIndexed:
		return "DrawIndexed"
	}
	return fmt.Sprintf("Ops(%d)", int32(op))
}

// Command is one recorded operation. Only the fields
// relevant to Op are set.
type Command struct {
	Op         Ops
	Slot       int
	Pipeline   *gpu.Pipeline
	Depth      *gpu.DepthStencil
	Bytes      []byte
	Texture    *gpu.Texture
	Buffer     *gpu.Buffer
	Topology   gpu.Topologies
	IndexCount int
}

// Recorder is a [gpu.Encoder] that records all commands.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) add(c Command) {
	r.Commands = append(r.Commands, c)
}

func (r *Recorder) SetPipeline(pl *gpu.Pipeline) {
	r.add(Command{Op: SetPipeline, Pipeline: pl})
}

func (r *Recorder) SetDepthStencil(ds *gpu.DepthStencil) {
	r.add(Command{Op: SetDepthStencil, Depth: ds})
}

func (r *Recorder) SetVertexBytes(slot int, data []byte) {
	r.add(Command{Op: SetVertexBytes, Slot: slot, Bytes: slices.Clone(data)})
}

func (r *Recorder) SetFragmentTexture(tx *gpu.Texture, slot int) {
	r.add(Command{Op: SetFragmentTexture, Slot: slot, Texture: tx})
}

func (r *Recorder) SetVertexBuffer(slot int, buf *gpu.Buffer) {
	r.add(Command{Op: SetVertexBuffer, Slot: slot, Buffer: buf})
}

func (r *Recorder) DrawIndexed(topo gpu.Topologies, indexCount int, index *gpu.Buffer) {
	r.add(Command{Op: DrawIndexed, Topology: topo, IndexCount: indexCount, Buffer: index})
}

// Ops returns just the sequence of operations recorded.
func (r *Recorder) Ops() []Ops {
	ops := make([]Ops, len(r.Commands))
	for i, c := range r.Commands {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the commands with the given op.
func (r *Recorder) Filter(op Ops) []Command {
	var cs []Command
	for _, c := range r.Commands {
		if c.Op == op {
			cs = append(cs, c)
		}
	}
	return cs
}

// Reset clears the recorded commands.
func (r *Recorder) Reset() {
	r.Commands = nil
}
