// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, text string) string {
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(text), 0666))
	return fn
}

func TestDefaults(t *testing.T) {
	cf := New()
	assert.Equal(t, "gpudemo", cf.Window.Title)
	assert.Equal(t, 1024, cf.Window.Width)
	assert.Equal(t, 1024, cf.MaxDraws)
	assert.Equal(t, Interleaved, cf.Pipeline.Packing)
	assert.Equal(t, BaseColor, cf.Pipeline.TextureSlot)
	assert.Equal(t, 1, cf.Pipeline.MaxTexturesPerMesh)
	assert.True(t, cf.Pipeline.IncludeNormals)
	assert.True(t, cf.Pipeline.Mips)
	assert.Equal(t, float32(45), cf.Camera.FOV)
	assert.Equal(t, float32(0.1), cf.Camera.Near)
	assert.Equal(t, [3]float32{0, 0, 3}, cf.Camera.Position)
	assert.Equal(t, 2*time.Second, cf.SyncWait())
}

func TestOpenTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.toml", `
SyncTimeout = 0.5

[Window]
Title = "base"
Width = 800
`)
	fn := writeFile(t, dir, "demo.toml", `
Includes = ["base.toml"]
MaxDraws = 64

[Window]
Width = 640

[Pipeline]
Packing = "planar"
IncludeNormals = false

[[Assets]]
Path = "models/box.gltf"
Rotation = [0.0, 90.0, 0.0]
`)
	cf, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, "base", cf.Window.Title)
	assert.Equal(t, 640, cf.Window.Width)
	assert.Equal(t, 500*time.Millisecond, cf.SyncWait())
	assert.Equal(t, 64, cf.MaxDraws)
	assert.Equal(t, Planar, cf.Pipeline.Packing)
	assert.False(t, cf.Pipeline.IncludeNormals)
	assert.Equal(t, 1, cf.Pipeline.MaxTexturesPerMesh)
	require.Len(t, cf.Assets, 1)
	assert.Equal(t, filepath.Join(dir, "models", "box.gltf"), cf.Assets[0].Path)
	assert.Equal(t, [3]float32{0, 90, 0}, cf.Assets[0].Rotation)
}

func TestOpenYAML(t *testing.T) {
	dir := t.TempDir()
	fn := writeFile(t, dir, "demo.yaml", `
pipeline:
  textureslot: metallic-roughness
  maxtexturespermesh: 0
assets:
  - path: ~/box.glb
    failonembeddedtexture: true
`)
	cf, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, MetallicRoughness, cf.Pipeline.TextureSlot)
	assert.Equal(t, 0, cf.Pipeline.MaxTexturesPerMesh)
	require.Len(t, cf.Assets, 1)
	exp, err := homedir.Expand("~/box.glb")
	require.NoError(t, err)
	assert.Equal(t, exp, cf.Assets[0].Path)
	assert.True(t, cf.Assets[0].FailOnEmbeddedTexture)
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(writeFile(t, dir, "demo.json", `{}`))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = Open(writeFile(t, dir, "bad.toml", "[Pipeline]\nPacking = \"sideways\"\n"))
	assert.Error(t, err)

	_, err = Open(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	_, err = Open(writeFile(t, dir, "loop.toml", `Includes = ["loop.toml"]`))
	assert.ErrorContains(t, err, "nested")
}

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	cf := New()
	cf.Pipeline.Packing = Planar
	cf.Pipeline.TextureSlot = MetallicRoughness
	cf.Window.Title = "saved"
	fn := filepath.Join(dir, "saved.toml")
	require.NoError(t, cf.Save(fn))

	got, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, Planar, got.Pipeline.Packing)
	assert.Equal(t, MetallicRoughness, got.Pipeline.TextureSlot)
	assert.Equal(t, "saved", got.Window.Title)
}

func TestEnumText(t *testing.T) {
	var pk Packings
	require.NoError(t, pk.UnmarshalText([]byte("Planar")))
	assert.Equal(t, Planar, pk)
	var ts TextureSlots
	require.NoError(t, ts.UnmarshalText([]byte("metallicroughness")))
	assert.Equal(t, MetallicRoughness, ts)
	assert.Equal(t, "base-color", BaseColor.String())
	assert.Equal(t, "Packings(9)", Packings(9).String())
}
