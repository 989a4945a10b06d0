// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package input

import "github.com/go-gl/glfw/v3.3/glfw"

// GLFWKeys maps glfw keys to Keys.
var GLFWKeys = map[glfw.Key]Keys{
	glfw.KeyW:      KeyW,
	glfw.KeyA:      KeyA,
	glfw.KeyS:      KeyS,
	glfw.KeyD:      KeyD,
	glfw.KeyQ:      KeyQ,
	glfw.KeyE:      KeyE,
	glfw.KeyR:      KeyR,
	glfw.KeyF:      KeyF,
	glfw.KeyC:      KeyC,
	glfw.KeySpace:  KeySpace,
	glfw.KeyEscape: KeyEscape,
}

// HandleGLFW updates the state for a glfw key event.
// Repeats are ignored, as the key is already down.
func (ks *KeyState) HandleGLFW(key glfw.Key, action glfw.Action) {
	k, ok := GLFWKeys[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		ks.Press(k)
	case glfw.Release:
		ks.Release(k)
	}
}

// GLFWKeyCallback returns a glfw key callback that updates ks.
func GLFWKeyCallback(ks *KeyState) glfw.KeyCallback {
	return func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		ks.HandleGLFW(key, action)
	}
}
