// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceFormat(t *testing.T) {
	opaque := []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque}

	f, a, err := surfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb}, opaque)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, f)
	assert.Equal(t, wgpu.CompositeAlphaModeOpaque, a)

	f, _, err = surfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float}, opaque)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, f)

	_, _, err = surfaceFormat(nil, opaque)
	assert.ErrorIs(t, err, ErrSurfaceUnsupported)
	_, _, err = surfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm}, nil)
	assert.ErrorIs(t, err, ErrSurfaceUnsupported)
}
