// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// SyncPoint is a point in the GPU timeline, returned by a submit.
// Wait blocks until the GPU has finished the work up to that point.
type SyncPoint interface {
	Wait()
}

// WaitSync waits on sp for at most timeout, returning [ErrDeviceLost]
// if it does not complete in time. A nil sp returns immediately, and
// a timeout <= 0 waits without bound.
func WaitSync(sp SyncPoint, timeout time.Duration) error {
	if sp == nil {
		return nil
	}
	if timeout <= 0 {
		sp.Wait()
		return nil
	}
	done := make(chan struct{})
	go func() {
		sp.Wait()
		close(done)
	}()
	tm := time.NewTimer(timeout)
	defer tm.Stop()
	select {
	case <-done:
		return nil
	case <-tm.C:
		return ErrDeviceLost
	}
}

// submission is the [SyncPoint] for a WebGPU queue submit.
// There is one frame in flight at a time, so waiting for the
// device queue to drain is waiting for this submit.
type submission struct {
	device *wgpu.Device
}

func (sb *submission) Wait() {
	sb.device.Poll(true, nil)
}
