// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyState(t *testing.T) {
	ks := NewKeyState()
	ks.Press(KeyW)
	ks.Press(KeyQ)
	assert.True(t, ks.IsDown(KeyW))
	assert.False(t, ks.IsDown(KeyS))

	snap := ks.Snapshot()
	ks.Release(KeyW)
	assert.True(t, snap.Has(KeyW))
	assert.False(t, ks.IsDown(KeyW))
	assert.Len(t, ks.Snapshot(), 1)

	var zero KeyState
	zero.Press(KeyA)
	assert.True(t, zero.IsDown(KeyA))
	assert.Equal(t, "Space", KeySpace.String())
}

func TestKeyStateConcurrent(t *testing.T) {
	ks := NewKeyState()
	var wg sync.WaitGroup
	keys := []Keys{KeyW, KeyA, KeyS, KeyD, KeyQ, KeyE}
	for _, k := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				ks.Press(k)
				ks.Release(k)
			}
			ks.Press(k)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 1000 {
			s := ks.Snapshot()
			for k := range s {
				s[k] = struct{}{}
			}
		}
	}()
	wg.Wait()
	assert.Len(t, ks.Snapshot(), len(keys))
}
