// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the settings for the demo: window, camera,
// pipeline options and the assets to load, read from TOML or YAML
// files on top of `default:` struct tag values.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Packings are the vertex buffer layouts an asset can be packed into.
type Packings int32

const (
	// Interleaved packs position, normal and uv into one buffer.
	Interleaved Packings = iota

	// Planar puts each attribute in its own buffer.
	Planar
)

var packingNames = []string{"interleaved", "planar"}

func (pk Packings) String() string {
	if pk >= 0 && int(pk) < len(packingNames) {
		return packingNames[pk]
	}
	return fmt.Sprintf("Packings(%d)", int32(pk))
}

func (pk Packings) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *Packings) UnmarshalText(text []byte) error {
	i, err := parseEnum(packingNames, string(text))
	if err != nil {
		return fmt.Errorf("config: packing: %w", err)
	}
	*pk = Packings(i)
	return nil
}

// TextureSlots are the material textures a mesh can sample.
type TextureSlots int32

const (
	// BaseColor is the albedo texture.
	BaseColor TextureSlots = iota

	// MetallicRoughness is the packed metallic (B) and roughness (G) texture.
	MetallicRoughness
)

var textureSlotNames = []string{"base-color", "metallic-roughness"}

func (ts TextureSlots) String() string {
	if ts >= 0 && int(ts) < len(textureSlotNames) {
		return textureSlotNames[ts]
	}
	return fmt.Sprintf("TextureSlots(%d)", int32(ts))
}

func (ts TextureSlots) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

func (ts *TextureSlots) UnmarshalText(text []byte) error {
	i, err := parseEnum(textureSlotNames, string(text))
	if err != nil {
		return fmt.Errorf("config: texture slot: %w", err)
	}
	*ts = TextureSlots(i)
	return nil
}

func parseEnum(names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, nm := range names {
		if nm == s || strings.ReplaceAll(nm, "-", "") == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q is not one of %s", s, strings.Join(names, ", "))
}

// Pipeline configures how meshes are packed and drawn.
type Pipeline struct {

	// Packing of the vertex buffers.
	Packing Packings

	// MaxTexturesPerMesh is 0 for untextured meshes, or 1.
	MaxTexturesPerMesh int `default:"1"`

	// IncludeNormals includes vertex normals, for lighting.
	IncludeNormals bool `default:"true"`

	// TextureSlot is the material texture sampled when textured.
	TextureSlot TextureSlots

	// Mips generates and uploads the full mip chain for textures.
	Mips bool `default:"true"`
}

// Window configures the main window.
type Window struct {
	Title  string `default:"gpudemo"`
	Width  int    `default:"1024"`
	Height int    `default:"768"`
}

// Camera is the initial fly camera setup.
type Camera struct {

	// Position of the eye. Defaults to 3 units back on +Z.
	Position [3]float32

	// FOV is the vertical field of view in degrees.
	FOV float32 `default:"45"`

	// Near clipping plane.
	Near float32 `default:"0.1"`

	// Far clipping plane.
	Far float32 `default:"100"`

	// MoveSpeed is the distance moved per frame while a move key is down.
	MoveSpeed float32 `default:"0.05"`

	// TurnSpeed is the degrees turned per frame while a turn key is down.
	TurnSpeed float32 `default:"1"`
}

// Asset is one glTF file to load.
type Asset struct {

	// Path of the .gltf or .glb file. A leading ~ is the home directory,
	// and relative paths are relative to the config file.
	Path string

	// Rotation in degrees about X, Y then Z, applied to every mesh.
	Rotation [3]float32

	// FailOnEmbeddedTexture makes textures stored inside the
	// file an error instead of being skipped with a warning.
	FailOnEmbeddedTexture bool
}

// Config is the full demo configuration.
type Config struct {

	// Includes are other config files opened before this one,
	// so that this file overrides their settings.
	Includes []string

	Window Window

	Camera Camera

	Pipeline Pipeline

	// Assets to load. Only the first is drawn.
	Assets []Asset

	// MaxDraws is the number of per-draw constant blocks per frame.
	MaxDraws int `default:"1024"`

	// SyncTimeout is the seconds to wait for the previous frame
	// before the device is considered lost.
	SyncTimeout float32 `default:"2"`
}

// SyncWait returns [Config.SyncTimeout] as a duration.
func (cf *Config) SyncWait() time.Duration {
	return time.Duration(float64(cf.SyncTimeout) * float64(time.Second))
}
