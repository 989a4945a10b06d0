// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"math/bits"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"
)

// ImageToRGBA returns given image as an image.RGBA (no conversion if it is already)
// The returned image always starts at 0,0.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rg, ok := img.(*image.RGBA); ok && rg.Rect.Min == (image.Point{}) {
		return rg
	}
	sz := img.Bounds().Size()
	rg := image.NewRGBA(image.Rectangle{Max: sz})
	draw.Draw(rg, rg.Bounds(), img, img.Bounds().Min, draw.Src)
	return rg
}

// MipLevels returns the number of mip levels for a full chain
// down to 1x1 for an image of the given size.
func MipLevels(sz image.Point) int {
	mx := max(sz.X, sz.Y)
	if mx <= 0 {
		return 0
	}
	return bits.Len(uint(mx))
}

// MipChain returns the full mip chain for the given image, starting
// with the image itself. Each level halves the previous one
// (never below 1) using Linear filtering.
// WebGPU has no blit pass, so the chain is built once on the CPU
// and uploaded with the texture.
func MipChain(img image.Image) []*image.RGBA {
	base := ImageToRGBA(img)
	sz := base.Rect.Size()
	n := MipLevels(sz)
	if n == 0 {
		return nil
	}
	levels := make([]*image.RGBA, n)
	levels[0] = base
	for i := 1; i < n; i++ {
		sz = image.Point{max(1, sz.X/2), max(1, sz.Y/2)}
		levels[i] = transform.Resize(levels[i-1], sz.X, sz.Y, transform.Linear)
	}
	return levels
}
