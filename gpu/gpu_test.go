// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu_test

import (
	"image"
	"image/color"
	"testing"
	"testing/fstest"
	"time"

	"cogentcore.org/gpudemo/gpu"
	"cogentcore.org/gpudemo/gpu/gputest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	dev := &gputest.Device{}
	data := make([]byte, 3*12)
	for i := range data {
		data[i] = byte(i)
	}
	buf, err := gpu.NewBuffer(dev, "pos", gpu.Positions, 3, 12, gpu.StorageShared, 1, data)
	require.NoError(t, err)
	assert.Equal(t, 36, buf.Size())
	assert.Equal(t, buf.Count*buf.Stride, buf.Size())
	assert.Equal(t, 1, buf.Slot)
	assert.Equal(t, data, gputest.BufferData(buf))
	assert.Equal(t, gpu.VertexUsage, dev.Buffers[0].Usage)

	buf.Release()
	assert.Nil(t, buf.Handle())
	assert.Equal(t, 1, dev.Released())
}

func TestNewBufferIndices(t *testing.T) {
	dev := &gputest.Device{}
	buf, err := gpu.NewBuffer(dev, "idx", gpu.Indices, 3, 4, gpu.StoragePrivate, 5, make([]byte, 12))
	require.NoError(t, err)
	assert.Equal(t, -1, buf.Slot)
	assert.Equal(t, gpu.IndexUsage, dev.Buffers[0].Usage)
	assert.Equal(t, gpu.StoragePrivate, dev.Buffers[0].Storage)
}

func TestNewBufferErrors(t *testing.T) {
	dev := &gputest.Device{}
	_, err := gpu.NewBuffer(dev, "pos", gpu.Positions, 3, 12, gpu.StorageShared, 1, make([]byte, 35))
	assert.ErrorIs(t, err, gpu.ErrBufferSize)

	_, err = gpu.NewBuffer(dev, "pos", gpu.Positions, 0, 12, gpu.StorageShared, 1, nil)
	assert.ErrorIs(t, err, gpu.ErrEmptyBuffer)
	assert.Empty(t, dev.Buffers)

	dev.FailAfter = 1
	_, err = gpu.NewBuffer(dev, "a", gpu.Positions, 1, 4, gpu.StorageShared, 1, make([]byte, 4))
	assert.NoError(t, err)
	_, err = gpu.NewBuffer(dev, "b", gpu.Positions, 1, 4, gpu.StorageShared, 1, make([]byte, 4))
	assert.ErrorIs(t, err, gputest.ErrAlloc)
	assert.ErrorContains(t, err, `"b"`)
}

func TestMipChain(t *testing.T) {
	assert.Equal(t, 0, gpu.MipLevels(image.Point{}))
	assert.Equal(t, 1, gpu.MipLevels(image.Point{1, 1}))
	assert.Equal(t, 4, gpu.MipLevels(image.Point{8, 4}))
	assert.Equal(t, 10, gpu.MipLevels(image.Point{512, 3}))

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	levels := gpu.MipChain(img)
	require.Len(t, levels, 4)
	sizes := []image.Point{{8, 4}, {4, 2}, {2, 1}, {1, 1}}
	for i, lv := range levels {
		assert.Equal(t, sizes[i], lv.Rect.Size(), "level %d", i)
	}
	assert.Same(t, img, levels[0])
}

func TestImageToRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 2, 4, 5))
	img.Set(2, 2, color.RGBA{10, 20, 30, 255})
	rg := gpu.ImageToRGBA(img)
	assert.Equal(t, image.Point{}, rg.Rect.Min)
	assert.Equal(t, image.Point{2, 3}, rg.Rect.Size())
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, rg.RGBAAt(0, 0))

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.Set(1, 1, color.Gray{200})
	rg = gpu.ImageToRGBA(gray)
	assert.Equal(t, color.RGBA{200, 200, 200, 255}, rg.RGBAAt(1, 1))
}

func TestNewTexture(t *testing.T) {
	dev := &gputest.Device{}
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	tx, err := gpu.NewTexture(dev, "checker.png", img, true, true)
	require.NoError(t, err)
	assert.Equal(t, 5, tx.MipLevels)
	assert.Equal(t, image.Point{16, 16}, tx.Format.Size)
	require.Len(t, dev.Textures, 1)
	assert.Len(t, dev.Textures[0].Levels, 5)

	assert.True(t, dev.Textures[0].SRGB)
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, tx.Format.Format)

	tx, err = gpu.NewTexture(dev, "flat", img, false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, tx.MipLevels)
	assert.False(t, dev.Textures[1].SRGB)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, tx.Format.Format)

	_, err = gpu.NewTexture(dev, "empty", image.NewRGBA(image.Rectangle{}), false, true)
	assert.Error(t, err)
}

func TestWaitSync(t *testing.T) {
	assert.NoError(t, gpu.WaitSync(nil, time.Second))

	fast := &gputest.SyncPoint{Delay: time.Millisecond}
	assert.NoError(t, gpu.WaitSync(fast, time.Second))
	assert.Equal(t, 1, fast.Waits())

	assert.NoError(t, gpu.WaitSync(fast, 0))
	assert.Equal(t, 2, fast.Waits())

	slow := &gputest.SyncPoint{Delay: 500 * time.Millisecond}
	assert.ErrorIs(t, gpu.WaitSync(slow, 5*time.Millisecond), gpu.ErrDeviceLost)
}

func TestIncludeFS(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/uniforms.wgsl": {Data: []byte("struct Uniforms {\n  time: f32,\n}")},
	}
	code := "#include \"uniforms.wgsl\"\n\nfn main() {}"
	out := gpu.IncludeFS(fsys, "shaders", code)
	assert.Contains(t, out, "// #include \"uniforms.wgsl\"")
	assert.Contains(t, out, "struct Uniforms {")
	assert.Contains(t, out, "fn main() {}")

	out = gpu.IncludeFS(fsys, "shaders", "#include \"missing.wgsl\"\n")
	assert.Contains(t, out, "#include \"missing.wgsl\"")
}

func TestTextureFormat(t *testing.T) {
	var tf gpu.TextureFormat
	tf.Defaults()
	tf.Size = image.Point{1024, 768}
	assert.InDelta(t, 1024.0/768.0, tf.Aspect(), 1e-6)
	assert.Equal(t, uint32(1), tf.Extent3D().DepthOrArrayLayers)
	assert.Contains(t, tf.String(), "sRGB")
}

func TestTypes(t *testing.T) {
	assert.Equal(t, 12, gpu.Float32Vector3.Bytes())
	assert.Equal(t, 8, gpu.Float32Vector2.Bytes())
	assert.Equal(t, 64, gpu.Float32Matrix4.Bytes())
	assert.True(t, gpu.Depth24Plus.IsDepth())
	assert.False(t, gpu.Float32.IsDepth())
	assert.Equal(t, "TriangleList", gpu.TriangleList.String())
}

func TestGPUBuffer(t *testing.T) {
	t.Skip("Need software GPU on CI")
	gp := gpu.NewGPU()
	require.NoError(t, gp.Config("test", nil))
	defer gp.Release()

	buf, err := gpu.NewBuffer(gp, "pos", gpu.Positions, 3, 12, gpu.StorageShared, 1, make([]byte, 36))
	require.NoError(t, err)
	assert.Equal(t, 36, buf.Size())
	buf.Release()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	tx, err := gpu.NewTexture(gp, "tex", img, true, true)
	require.NoError(t, err)
	assert.Equal(t, 3, tx.MipLevels)
	tx.Release()
}
