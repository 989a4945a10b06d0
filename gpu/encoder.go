// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

// Encoder records the draw commands of one render pass.
// [RenderEncoder] records into a WebGPU render pass;
// gputest.Recorder records into a list for inspection.
//
// Commands take effect in the order recorded: SetPipeline and
// SetDepthStencil must precede any draw, and the bindings in
// effect at a DrawIndexed call are the ones that draw uses.
type Encoder interface {
	// SetPipeline binds the pipeline for subsequent draws.
	SetPipeline(pl *Pipeline)

	// SetDepthStencil binds the depth state for subsequent draws.
	SetDepthStencil(ds *DepthStencil)

	// SetVertexBytes supplies a small block of constants to the
	// vertex and fragment stages for the next draw only.
	// The data is copied at record time. slot is [ConstantsSlot].
	SetVertexBytes(slot int, data []byte)

	// SetFragmentTexture binds the texture for sampling in the
	// fragment stage at the given slot. A nil texture clears
	// the slot, so no previous texture stays bound.
	SetFragmentTexture(tx *Texture, slot int)

	// SetVertexBuffer binds the buffer at the given vertex slot.
	SetVertexBuffer(slot int, buf *Buffer)

	// DrawIndexed draws indexCount uint32 indices from the index
	// buffer, as primitives of the given topology.
	DrawIndexed(topo Topologies, indexCount int, index *Buffer)
}
