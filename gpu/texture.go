// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
)

// Texture is a sampled 2D RGBA texture in device memory, with
// its full mip chain uploaded at creation. It is read-only
// thereafter and owned by the Mesh that references it.
type Texture struct {

	// Name of the texture. Is auto-set to filename if loaded from
	// a file and otherwise empty.
	Name string

	// Format & size of texture
	Format TextureFormat

	// MipLevels is the number of mip levels uploaded.
	MipLevels int

	handle Resource
}

// NewTexture makes a texture from the given Go image, converting
// to RGBA as needed. If mips is true the full mip chain is
// generated and uploaded, else just the one level. Color images
// are srgb; data such as metallic-roughness is not.
func NewTexture(dev Device, name string, img image.Image, mips, srgb bool) (*Texture, error) {
	sz := img.Bounds().Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return nil, fmt.Errorf("gpu.NewTexture %q: empty image", name)
	}
	var levels []*image.RGBA
	if mips {
		levels = MipChain(img)
	} else {
		levels = []*image.RGBA{ImageToRGBA(img)}
	}
	h, err := dev.CreateTexture(name, levels, srgb)
	if err != nil {
		return nil, fmt.Errorf("gpu.NewTexture %q: %w", name, err)
	}
	tx := &Texture{Name: name, MipLevels: len(levels), handle: h}
	tx.Format.Defaults()
	tx.Format.Format = RGBAFormat(srgb)
	tx.Format.Size = sz
	return tx, nil
}

// Handle returns the device resource backing the texture.
func (tx *Texture) Handle() Resource {
	return tx.handle
}

// Release frees the device texture.
func (tx *Texture) Release() {
	if tx.handle == nil {
		return
	}
	tx.handle.Release()
	tx.handle = nil
}
