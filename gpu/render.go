// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Render manages the elements needed for a render pass into
// the frames of a [Surface]: the clear values and the depth buffer.
type Render struct {

	// image format information for the framebuffer we render to
	Format TextureFormat

	// DepthFormat is the depth buffer format; UndefinedType for none.
	DepthFormat Types

	// values for clearing image when starting render pass
	ClearColor color.Color

	// ClearDepth is the depth value the depth buffer is cleared to.
	ClearDepth float32

	depth     *wgpu.Texture
	depthView *wgpu.TextureView
	gp        *GPU
}

// Config configures the render for the given device, frame
// format and depth format (UndefinedType for no depth buffer).
func (rd *Render) Config(gp *GPU, format *TextureFormat, depthFmt Types) error {
	rd.gp = gp
	rd.Format = *format
	rd.DepthFormat = depthFmt
	if rd.ClearColor == nil {
		rd.ClearColor = color.Black
	}
	rd.ClearDepth = 1
	return rd.configDepth()
}

// SetSize updates the size, remaking the depth buffer.
func (rd *Render) SetSize(size image.Point) error {
	if rd.Format.Size == size && rd.depth != nil {
		return nil
	}
	rd.Format.Size = size
	return rd.configDepth()
}

func (rd *Render) configDepth() error {
	rd.releaseDepth()
	if !rd.DepthFormat.IsDepth() || rd.Format.Size.X == 0 || rd.Format.Size.Y == 0 {
		return nil
	}
	t, err := rd.gp.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "depth",
		Size:          rd.Format.Extent3D(),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        rd.DepthFormat.TextureFormat(),
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if errors.Log(err) != nil {
		return err
	}
	vw, err := t.CreateView(nil)
	if errors.Log(err) != nil {
		t.Release()
		return err
	}
	rd.depth = t
	rd.depthView = vw
	return nil
}

func (rd *Render) releaseDepth() {
	if rd.depthView != nil {
		rd.depthView.Release()
		rd.depthView = nil
	}
	if rd.depth != nil {
		rd.depth.Release()
		rd.depth = nil
	}
}

// Release frees the depth buffer.
func (rd *Render) Release() {
	rd.releaseDepth()
}

// ClearRenderPass returns a render pass descriptor that clears the
// framebuffer and the depth buffer.
func (rd *Render) ClearRenderPass(view *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	r, g, b, a := rd.ClearColor.RGBA()
	rpd := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:   view,
			LoadOp: wgpu.LoadOpClear,
			ClearValue: wgpu.Color{
				R: float64(r) / 0xffff,
				G: float64(g) / 0xffff,
				B: float64(b) / 0xffff,
				A: float64(a) / 0xffff,
			},
			StoreOp: wgpu.StoreOpStore,
		}},
	}
	if rd.depthView != nil {
		rpd.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            rd.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: rd.ClearDepth,
		}
	}
	return rpd
}

// BeginRenderPass starts a command encoder and a clearing render pass
// into the given view, returning the [RenderEncoder] to record into.
func (rd *Render) BeginRenderPass(view *wgpu.TextureView) (*RenderEncoder, error) {
	cmd, err := rd.gp.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	rp := cmd.BeginRenderPass(rd.ClearRenderPass(view))
	return &RenderEncoder{gp: rd.gp, cmd: cmd, pass: rp}, nil
}

// RenderEncoder is the WebGPU [Encoder]: it records into one render
// pass, staging the per-draw constants for upload at Submit.
type RenderEncoder struct {
	gp       *GPU
	cmd      *wgpu.CommandEncoder
	pass     *wgpu.RenderPassEncoder
	pipeline *Pipeline

	// consts are the per-draw constant blocks, ConstantsAlign apart.
	consts []byte
	err    error
}

func (re *RenderEncoder) fail(err error) {
	slog.Error("gpu.RenderEncoder", "err", err)
	if re.err == nil {
		re.err = err
	}
}

func (re *RenderEncoder) SetPipeline(pl *Pipeline) {
	wp, ok := pl.Handle().(*wgpuPipeline)
	if !ok {
		re.fail(fmt.Errorf("pipeline %q: %w", pl.Name, ErrForeignResource))
		return
	}
	re.pipeline = pl
	re.pass.SetPipeline(wp.pipeline)
}

// SetDepthStencil checks ds against the depth state compiled into the
// current pipeline: WebGPU has no separate depth state object.
func (re *RenderEncoder) SetDepthStencil(ds *DepthStencil) {
	if re.pipeline == nil {
		re.fail(errors.New("SetDepthStencil before SetPipeline"))
		return
	}
	pds := re.pipeline.Depth
	if (ds == nil) != (pds == nil) || (ds != nil && *ds != *pds) {
		re.fail(fmt.Errorf("depth state %+v does not match pipeline %q", ds, re.pipeline.Name))
	}
}

func (re *RenderEncoder) SetVertexBytes(slot int, data []byte) {
	if slot != ConstantsSlot {
		re.fail(fmt.Errorf("SetVertexBytes slot %d: only slot %d holds constants", slot, ConstantsSlot))
		return
	}
	if len(data) > ConstantsAlign {
		re.fail(fmt.Errorf("SetVertexBytes: %d bytes > max %d", len(data), ConstantsAlign))
		return
	}
	off := len(re.consts)
	if off/ConstantsAlign >= re.gp.MaxDraws {
		re.fail(ErrTooManyDraws)
		return
	}
	re.consts = append(re.consts, make([]byte, ConstantsAlign)...)
	copy(re.consts[off:], data)
	re.pass.SetBindGroup(ConstantsGroup, re.gp.constGroup, []uint32{uint32(off)})
}

func (re *RenderEncoder) SetFragmentTexture(tx *Texture, slot int) {
	if slot != 0 {
		re.fail(fmt.Errorf("SetFragmentTexture slot %d: only slot 0 is available", slot))
		return
	}
	if tx == nil {
		tx = re.gp.blank
	}
	wt, ok := tx.Handle().(*wgpuTexture)
	if !ok {
		re.fail(fmt.Errorf("texture %q: %w", tx.Name, ErrForeignResource))
		return
	}
	re.pass.SetBindGroup(uint32(TextureGroup+slot), wt.group, nil)
}

func (re *RenderEncoder) SetVertexBuffer(slot int, buf *Buffer) {
	wb, ok := buf.Handle().(*wgpuBuffer)
	if !ok {
		re.fail(fmt.Errorf("buffer %q: %w", buf.Name, ErrForeignResource))
		return
	}
	re.pass.SetVertexBuffer(uint32(slot-VertexSlotBase), wb.buffer, 0, wgpu.WholeSize)
}

// DrawIndexed draws with the topology compiled into the pipeline,
// which must match topo.
func (re *RenderEncoder) DrawIndexed(topo Topologies, indexCount int, index *Buffer) {
	if re.pipeline != nil && re.pipeline.Topology != topo {
		re.fail(fmt.Errorf("draw topology %v does not match pipeline %q topology %v", topo, re.pipeline.Name, re.pipeline.Topology))
		return
	}
	wb, ok := index.Handle().(*wgpuBuffer)
	if !ok {
		re.fail(fmt.Errorf("index buffer %q: %w", index.Name, ErrForeignResource))
		return
	}
	re.pass.SetIndexBuffer(wb.buffer, Uint32.IndexType(), 0, wgpu.WholeSize)
	re.pass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
}

// Submit ends the render pass, uploads the staged constants and
// submits the commands, returning the sync point for this frame.
// Any recording error is returned after the submit.
func (re *RenderEncoder) Submit() (SyncPoint, error) {
	re.pass.End()
	re.pass.Release() // must happen before Finish
	defer re.cmd.Release()
	if len(re.consts) > 0 {
		err := re.gp.Queue.WriteBuffer(re.gp.constants, 0, re.consts)
		if errors.Log(err) != nil {
			return nil, err
		}
	}
	cmdBuffer, err := re.cmd.Finish(nil)
	if errors.Log(err) != nil {
		return nil, err
	}
	re.gp.Queue.Submit(cmdBuffer)
	cmdBuffer.Release()
	return &submission{device: re.gp.Device}, re.err
}

// Abort ends and drops the recording without submitting it.
func (re *RenderEncoder) Abort() {
	re.pass.End()
	re.pass.Release()
	re.cmd.Release()
}
