// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shaders holds the WGSL mesh shader and selects its
// entry points for the configured vertex packing.
package shaders

import (
	"embed"
	"fmt"
	"io/fs"

	"cogentcore.org/gpudemo/config"
	"cogentcore.org/gpudemo/gpu"
	"github.com/gogpu/naga"
)

// FS has the WGSL sources. Files can #include others by name.
//
//go:embed *.wgsl
var FS embed.FS

// Mesh is the name of the mesh shader file.
const Mesh = "mesh.wgsl"

// Entry points of the mesh shader.
const (
	VertexMain     = "vs_main"
	VertexNoNormal = "vs_no_normal"
	FragmentMain   = "fs_main"
)

// Open returns the named shader file from fsys with includes expanded.
func Open(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("shaders: %w", err)
	}
	return gpu.IncludeFS(fsys, ".", string(b)), nil
}

// Source returns the mesh shader with the entry points matching
// the vertex layouts of the given pipeline settings: planar packing
// without normals has no normal attribute to read.
func Source(pl *config.Pipeline) (gpu.ShaderSource, error) {
	code, err := Open(FS, Mesh)
	if err != nil {
		return gpu.ShaderSource{}, err
	}
	src := gpu.ShaderSource{Name: Mesh, WGSL: code, VertexEntry: VertexMain, FragmentEntry: FragmentMain}
	if pl.Packing == config.Planar && !pl.IncludeNormals {
		src.VertexEntry = VertexNoNormal
	}
	return src, nil
}

// Compile compiles WGSL code to SPIR-V.
func Compile(code string) ([]byte, error) {
	spv, err := naga.Compile(code)
	if err != nil {
		return nil, fmt.Errorf("shaders: compile: %w", err)
	}
	return spv, nil
}

// Validate checks that the WGSL of src compiles, so a broken
// shader fails before any device work. Sources with only
// SPIR-V were compiled ahead of time and are not checked.
func Validate(src *gpu.ShaderSource) error {
	if src.WGSL == "" {
		return nil
	}
	_, err := Compile(src.WGSL)
	if err != nil {
		return fmt.Errorf("%s: %w", src.Name, err)
	}
	return nil
}
