// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides a fly camera driven by held keys,
// producing right-handed perspective view-projection matrices.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/gpudemo/config"
	"cogentcore.org/gpudemo/input"
)

// MaxPitch is the largest pitch magnitude in degrees,
// short of looking straight up or down.
const MaxPitch = 89

// Camera is a fly camera. Front and Direction are derived from Yaw
// and Pitch on every update, never integrated, so they do not drift.
type Camera struct {

	// Position of the eye.
	Position mgl32.Vec3

	// Target is the point looked at, Position + Front.
	Target mgl32.Vec3

	// Direction points from the target back to the eye.
	Direction mgl32.Vec3

	// Front is the unit view direction.
	Front mgl32.Vec3

	// Up is the world up vector.
	Up mgl32.Vec3

	// Yaw in degrees. -90 looks down -Z.
	Yaw float32

	// Pitch in degrees, within [-MaxPitch, MaxPitch].
	Pitch float32

	// FOV is the vertical field of view in degrees.
	FOV float32

	// Near and Far are the clipping planes.
	Near, Far float32

	// MoveSpeed is the distance moved per update with a move key down.
	// It is not scaled by frame time.
	MoveSpeed float32

	// TurnSpeed is the degrees turned per update with a turn key down.
	TurnSpeed float32
}

// New returns a camera at the configured position looking down -Z.
func New(cf *config.Camera) *Camera {
	c := &Camera{
		Position:  cf.Position,
		Up:        mgl32.Vec3{0, 1, 0},
		Yaw:       -90,
		FOV:       cf.FOV,
		Near:      cf.Near,
		Far:       cf.Far,
		MoveSpeed: cf.MoveSpeed,
		TurnSpeed: cf.TurnSpeed,
	}
	c.UpdateVectors()
	return c
}

// UpdateVectors clamps the pitch and derives Front, Target and
// Direction from the yaw and pitch.
func (c *Camera) UpdateVectors() {
	c.Pitch = max(-MaxPitch, min(MaxPitch, c.Pitch))
	ys, yc := math32.Sincos(mgl32.DegToRad(c.Yaw))
	ps, pc := math32.Sincos(mgl32.DegToRad(c.Pitch))
	c.Front = mgl32.Vec3{yc * pc, ps, ys * pc}.Normalize()
	c.Target = c.Position.Add(c.Front)
	c.Direction = c.Front.Mul(-1)
}

// Right returns the unit vector to the right of the view.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front.Cross(c.Up).Normalize()
}

// Update moves and turns the camera for the keys held down, by the
// fixed speeds: W/S forward and back, A/D strafe, Space/C up and
// down, Q/E yaw, R/F pitch. Moves use the Front from before the turn.
func (c *Camera) Update(keys input.Set) {
	var move mgl32.Vec3
	if keys.Has(input.KeyW) {
		move = move.Add(c.Front)
	}
	if keys.Has(input.KeyS) {
		move = move.Sub(c.Front)
	}
	if keys.Has(input.KeyD) {
		move = move.Add(c.Right())
	}
	if keys.Has(input.KeyA) {
		move = move.Sub(c.Right())
	}
	if keys.Has(input.KeySpace) {
		move = move.Add(c.Up)
	}
	if keys.Has(input.KeyC) {
		move = move.Sub(c.Up)
	}
	c.Position = c.Position.Add(move.Mul(c.MoveSpeed))

	if keys.Has(input.KeyE) {
		c.Yaw += c.TurnSpeed
	}
	if keys.Has(input.KeyQ) {
		c.Yaw -= c.TurnSpeed
	}
	if keys.Has(input.KeyR) {
		c.Pitch += c.TurnSpeed
	}
	if keys.Has(input.KeyF) {
		c.Pitch -= c.TurnSpeed
	}
	c.UpdateVectors()
}

// View returns the right-handed view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// Projection returns the perspective projection for the aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}
