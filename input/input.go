// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input tracks the set of keys held down. Window event
// callbacks press and release keys, and the frame loop reads a
// snapshot once per frame.
package input

import (
	"fmt"
	"maps"
	"sync"
)

// Keys are the keys the demo responds to.
type Keys int32

const (
	KeyNone Keys = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyR
	KeyF
	KeyC
	KeySpace
	KeyEscape
)

var keyNames = [...]string{"None", "W", "A", "S", "D", "Q", "E", "R", "F", "C", "Space", "Escape"}

func (k Keys) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Keys(%d)", int32(k))
}

// Set is a set of keys held down.
type Set map[Keys]struct{}

// Has returns whether the key is in the set.
func (s Set) Has(k Keys) bool {
	_, ok := s[k]
	return ok
}

// KeyState is the set of keys currently held down, safe for
// concurrent use by event callbacks and the frame loop.
type KeyState struct {
	mu   sync.Mutex
	down Set
}

// NewKeyState returns an empty key state.
func NewKeyState() *KeyState {
	return &KeyState{down: Set{}}
}

// Press records the key as held down.
func (ks *KeyState) Press(k Keys) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	if ks.down == nil {
		ks.down = Set{}
	}
	ks.down[k] = struct{}{}
}

// Release records the key as released.
func (ks *KeyState) Release(k Keys) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	delete(ks.down, k)
}

// IsDown returns whether the key is held down.
func (ks *KeyState) IsDown(k Keys) bool {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.down.Has(k)
}

// Snapshot returns a copy of the keys held down. The lock is
// released on return, so the copy can be used while events
// keep arriving.
func (ks *KeyState) Snapshot() Set {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	if ks.down == nil {
		return Set{}
	}
	return maps.Clone(ks.down)
}
