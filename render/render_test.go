// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"cogentcore.org/gpudemo/asset"
	"cogentcore.org/gpudemo/camera"
	"cogentcore.org/gpudemo/config"
	"cogentcore.org/gpudemo/gpu"
	"cogentcore.org/gpudemo/gpu/gputest"
	"cogentcore.org/gpudemo/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle(name string) *scene.Primitive {
	return &scene.Primitive{
		Name:      name,
		Topology:  gpu.TriangleList,
		Positions: [][3]float32{{0, 0.5, -2}, {-0.5, -0.5, -2}, {0.5, -0.5, -2}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       [][2]float32{{0.5, 0}, {0, 1}, {1, 1}},
		Indices:   []uint32{0, 1, 2},
		Transform: mgl32.Ident4(),
	}
}

func importAsset(t *testing.T, prims ...*scene.Primitive) *asset.Asset {
	opts := asset.Options{IncludeNormals: true}
	as, err := asset.Import(&gputest.Device{}, &scene.Document{Name: "test", Primitives: prims}, opts)
	require.NoError(t, err)
	return as
}

func newPass() *SinglePass {
	opts := asset.Options{IncludeNormals: true}
	return NewSinglePass(gputest.NewPipeline("mesh", asset.Layouts(opts)...), gpu.NewDepthStencil())
}

func readMat(b []byte) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return m
}

func TestUniformsBytes(t *testing.T) {
	u := Uniforms{ViewProj: mgl32.Translate3D(1, 2, 3), Model: mgl32.Scale3D(2, 2, 2), Time: 1.5}
	b := u.Bytes()
	require.Len(t, b, UniformsSize)
	assert.Equal(t, u.ViewProj, readMat(b))
	assert.Equal(t, u.Model, readMat(b[64:]))
	// column-major: translation is in the last column
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(b[48:])))
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(b[128:])))
	assert.Equal(t, make([]byte, 12), b[132:])
}

func TestSingleTriangle(t *testing.T) {
	as := importAsset(t, triangle("tri"))
	cf := config.New()
	cam := camera.New(&cf.Camera)
	cam.Position = mgl32.Vec3{}
	cam.UpdateVectors()
	aspect := float32(16.0 / 9.0)
	vp := cam.ViewProjection(aspect)
	exp := mgl32.Perspective(mgl32.DegToRad(cam.FOV), aspect, cam.Near, cam.Far).Mul4(mgl32.LookAtV(cam.Position, cam.Position.Add(cam.Front), cam.Up))

	rec := &gputest.Recorder{}
	pass := newPass()
	pass.Render(rec, NewUniforms(vp, 0), as, 0)

	draws := rec.Filter(gputest.DrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, 3, draws[0].IndexCount)
	assert.Equal(t, gpu.TriangleList, draws[0].Topology)
	assert.Same(t, as.Meshes[0].Index, draws[0].Buffer)

	consts := rec.Filter(gputest.SetVertexBytes)
	require.Len(t, consts, 1)
	assert.Equal(t, gpu.ConstantsSlot, consts[0].Slot)
	assert.Equal(t, exp, readMat(consts[0].Bytes))
	assert.Equal(t, mgl32.Ident4(), readMat(consts[0].Bytes[64:]))

	assert.Equal(t, []gputest.Ops{
		gputest.SetPipeline, gputest.SetDepthStencil,
		gputest.SetVertexBytes, gputest.SetFragmentTexture, gputest.SetVertexBuffer, gputest.DrawIndexed,
	}, rec.Ops())
	assert.Same(t, pass.Pipeline(), rec.Commands[0].Pipeline)
	assert.Same(t, pass.DepthStencil(), rec.Commands[1].Depth)
	vb := rec.Filter(gputest.SetVertexBuffer)[0]
	assert.Equal(t, gpu.VertexSlotBase, vb.Slot)
}

func TestStateHoisted(t *testing.T) {
	as := importAsset(t, triangle("a"), triangle("b"), triangle("c"))
	rec := &gputest.Recorder{}
	newPass().Render(rec, NewUniforms(mgl32.Ident4(), 0), as, 0)
	assert.Len(t, rec.Filter(gputest.SetPipeline), 1)
	assert.Len(t, rec.Filter(gputest.SetDepthStencil), 1)
	assert.Len(t, rec.Filter(gputest.DrawIndexed), 3)
	ops := rec.Ops()
	assert.Equal(t, gputest.SetPipeline, ops[0])
	assert.Equal(t, gputest.SetDepthStencil, ops[1])
}

func TestIdempotent(t *testing.T) {
	as := importAsset(t, triangle("a"), triangle("b"))
	as.Meshes[1].Model = mgl32.Translate3D(0, 1, 0)
	u := NewUniforms(mgl32.Perspective(1, 1, 0.1, 10), 2.5)
	pass := newPass()

	rec := &gputest.Recorder{}
	pass.Render(rec, u, as, 2.5)
	first := rec.Commands
	rec.Reset()
	pass.Render(rec, u, as, 2.5)
	assert.Equal(t, first, rec.Commands)
}

func TestTextureUnbind(t *testing.T) {
	as := importAsset(t, triangle("a"), triangle("b"))
	dev := &gputest.Device{}
	tex, err := gpu.NewTexture(dev, "a.png", image.NewRGBA(image.Rect(0, 0, 2, 2)), false, true)
	require.NoError(t, err)
	as.Meshes[0].Texture = tex

	rec := &gputest.Recorder{}
	newPass().Render(rec, NewUniforms(mgl32.Ident4(), 0), as, 0)

	// the last texture bind before each draw is that mesh's texture
	var bound *gpu.Texture
	draw := 0
	for _, c := range rec.Commands {
		switch c.Op {
		case gputest.SetFragmentTexture:
			assert.Equal(t, 0, c.Slot)
			bound = c.Texture
		case gputest.DrawIndexed:
			assert.Same(t, as.Meshes[draw].Texture, bound, "draw %d", draw)
			draw++
		}
	}
	assert.Equal(t, 2, draw)
	texs := rec.Filter(gputest.SetFragmentTexture)
	require.Len(t, texs, 2)
	assert.Same(t, tex, texs[0].Texture)
	assert.Nil(t, texs[1].Texture)
}

func TestMeshModel(t *testing.T) {
	as := importAsset(t, triangle("a"))
	as.Meshes[0].Model = mgl32.Translate3D(0, 0, -5)
	u := NewUniforms(mgl32.Ident4(), 0)
	u.Model = mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	rec := &gputest.Recorder{}
	newPass().Render(rec, u, as, 3)
	b := rec.Filter(gputest.SetVertexBytes)[0].Bytes
	assert.Equal(t, u.Model.Mul4(as.Meshes[0].Model), readMat(b[64:]))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(b[128:])))
}

func TestDrawsPipelineTopology(t *testing.T) {
	line := triangle("line")
	line.Topology = gpu.LineList
	as := importAsset(t, line, triangle("tri"))
	rec := &gputest.Recorder{}
	newPass().Render(rec, NewUniforms(mgl32.Ident4(), 0), as, 0)
	draws := rec.Filter(gputest.DrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, asset.Topology, draws[0].Topology)
}

func TestNewPipelineDesc(t *testing.T) {
	src := gpu.ShaderSource{Name: "mesh.wgsl", WGSL: "// code", VertexEntry: "vs_main", FragmentEntry: "fs_main"}
	ds := gpu.NewDepthStencil()
	pd := NewPipelineDesc("mesh", src, asset.Options{Packing: config.Planar}, ds)
	assert.Equal(t, gpu.TriangleList, pd.Topology)
	assert.Same(t, ds, pd.Depth)
	assert.Equal(t, "vs_main", pd.Shader.VertexEntry)
	require.Len(t, pd.Layouts, 2)
	assert.Equal(t, 1, pd.Layouts[0].Slot)
	assert.Equal(t, 2, pd.Layouts[1].Slot)
}
