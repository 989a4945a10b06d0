// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestHandleGLFW(t *testing.T) {
	ks := NewKeyState()
	cb := GLFWKeyCallback(ks)
	cb(nil, glfw.KeySpace, 0, glfw.Press, 0)
	cb(nil, glfw.KeyEscape, 0, glfw.Press, 0)
	cb(nil, glfw.KeyZ, 0, glfw.Press, 0)
	assert.Equal(t, Set{KeySpace: {}, KeyEscape: {}}, ks.Snapshot())

	cb(nil, glfw.KeySpace, 0, glfw.Repeat, 0)
	assert.True(t, ks.IsDown(KeySpace))
	cb(nil, glfw.KeySpace, 0, glfw.Release, 0)
	assert.False(t, ks.IsDown(KeySpace))
}
