// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"image"

	"cogentcore.org/gpudemo/gpu"
)

// SurfaceTarget is a [Target] drawing into a window surface.
type SurfaceTarget struct {
	Surface *gpu.Surface
}

func (st *SurfaceTarget) Size() image.Point {
	return st.Surface.Size()
}

func (st *SurfaceTarget) SetSize(size image.Point) {
	st.Surface.SetSize(size)
}

func (st *SurfaceTarget) Acquire() (Drawable, error) {
	fr := st.Surface.Acquire()
	if fr == nil {
		return nil, nil
	}
	return &surfaceDrawable{frame: fr}, nil
}

type surfaceDrawable struct {
	frame *gpu.SurfaceFrame
}

func (sd *surfaceDrawable) Begin() (Recording, error) {
	re, err := sd.frame.Begin()
	if err != nil {
		return nil, err
	}
	return re, nil
}

func (sd *surfaceDrawable) Present() {
	sd.frame.Present()
}

func (sd *surfaceDrawable) Release() {
	sd.frame.Release()
}
