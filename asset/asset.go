// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asset imports scene documents into GPU resident meshes:
// vertex and index buffers, an optional texture per mesh, and the
// model transform of each mesh. An [Asset] is built once and is
// immutable afterward.
package asset

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/gpudemo/config"
	"cogentcore.org/gpudemo/gpu"
	"cogentcore.org/gpudemo/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Topology is the primitive topology the mesh pipeline draws.
// Primitives of any other topology are skipped at import.
const Topology = gpu.TriangleList

var (
	// ErrNoPositions is returned for a primitive without vertex positions.
	ErrNoPositions = errors.New("asset: primitive has no positions")

	// ErrNoIndices is returned for a primitive without indices.
	ErrNoIndices = errors.New("asset: primitive has no indices")

	// ErrNoUVs is returned for a primitive without texture coordinates
	// when the pipeline samples textures.
	ErrNoUVs = errors.New("asset: primitive has no texture coordinates")

	// ErrEmbeddedTexture is returned for a texture stored inside the
	// scene document when [Options.FailOnEmbeddedTexture] is set.
	ErrEmbeddedTexture = errors.New("asset: embedded textures are not supported")

	// ErrIndexBounds is returned when an index is not below the vertex count.
	ErrIndexBounds = errors.New("asset: index out of range")

	// ErrAttributeCount is returned when normals or uvs do not
	// have one element per position.
	ErrAttributeCount = errors.New("asset: attribute count does not match positions")
)

// Options control how an asset is imported.
type Options struct {

	// Packing of the vertex buffers.
	Packing config.Packings

	// IncludeNormals packs vertex normals.
	IncludeNormals bool

	// MaxTexturesPerMesh is 0 or 1. When 1, uvs are required
	// and the TextureSlot texture of each material is loaded.
	MaxTexturesPerMesh int

	// TextureSlot selects the material texture to load.
	TextureSlot config.TextureSlots

	// Mips generates the full mip chain for each texture.
	Mips bool

	// Storage mode for all buffers.
	Storage gpu.StorageModes

	// Rotation in degrees about X, Y then Z, placing the whole
	// asset in the world. It is applied on top of each mesh's
	// own transform.
	Rotation mgl32.Vec3

	// FailOnEmbeddedTexture makes an embedded texture an error
	// instead of a warning with the mesh left untextured.
	FailOnEmbeddedTexture bool
}

// NewOptions returns the import options for the given pipeline
// settings and asset entry.
func NewOptions(pl *config.Pipeline, as *config.Asset) Options {
	return Options{
		Packing:               pl.Packing,
		IncludeNormals:        pl.IncludeNormals,
		MaxTexturesPerMesh:    pl.MaxTexturesPerMesh,
		TextureSlot:           pl.TextureSlot,
		Mips:                  pl.Mips,
		Storage:               gpu.StoragePrivate,
		Rotation:              as.Rotation,
		FailOnEmbeddedTexture: as.FailOnEmbeddedTexture,
	}
}

// Mesh is one drawable primitive: its vertex buffers bound at
// their slots, an index buffer, and an optional texture.
type Mesh struct {
	// Name of the source primitive.
	Name string

	// Buffers in slot order.
	Buffers []*gpu.Buffer

	// Index buffer of uint32 indices.
	Index *gpu.Buffer

	// Texture sampled by the fragment stage. nil if untextured.
	Texture *gpu.Texture

	// IndexCount is the number of indices to draw.
	IndexCount int

	// VertexCount is the number of vertices in each vertex buffer.
	VertexCount int

	// Topology of the primitive.
	Topology gpu.Topologies

	// Model is the transform from mesh to world space.
	Model mgl32.Mat4
}

// Validate checks that the index count fits in the index buffer
// and that every one of the given indices is below the vertex count.
func (ms *Mesh) Validate(indices []uint32) error {
	if ms.Index == nil || ms.IndexCount > ms.Index.Count {
		return fmt.Errorf("asset: mesh %q: index count %d exceeds index buffer: %w", ms.Name, ms.IndexCount, ErrIndexBounds)
	}
	for i, ix := range indices {
		if int(ix) >= ms.VertexCount {
			return fmt.Errorf("asset: mesh %q: index %d is %d, with %d vertices: %w", ms.Name, i, ix, ms.VertexCount, ErrIndexBounds)
		}
	}
	return nil
}

// Release frees the buffers and texture of the mesh.
// Textures shared between meshes are released once.
func (ms *Mesh) Release() {
	for _, b := range ms.Buffers {
		b.Release()
	}
	if ms.Index != nil {
		ms.Index.Release()
	}
	if ms.Texture != nil {
		ms.Texture.Release()
	}
}

// Asset is the set of meshes imported from one scene document.
type Asset struct {
	// Name is the document name.
	Name string

	// Root is the directory textures were loaded from.
	Root string

	// Meshes in import order, which is draw order.
	Meshes []*Mesh
}

// Release frees all mesh resources.
func (as *Asset) Release() {
	for _, ms := range as.Meshes {
		ms.Release()
	}
}

// Load opens the scene file at path and imports it.
func Load(dev gpu.Device, path string, opts Options) (*Asset, error) {
	doc, err := scene.Open(path)
	if err != nil {
		return nil, err
	}
	return Import(dev, doc, opts)
}

// Import builds the GPU meshes for every primitive in the document,
// uploading all buffers and textures before it returns. Any failure
// releases what was already created. Primitives that are not
// [Topology] are skipped with a warning.
func Import(dev gpu.Device, doc *scene.Document, opts Options) (*Asset, error) {
	im := &importer{dev: dev, doc: doc, opts: opts, textures: map[string]*gpu.Texture{}}
	as := &Asset{Name: doc.Name, Root: doc.Root}
	world := Rotation(opts.Rotation)
	for _, pr := range doc.Primitives {
		if pr.Topology != Topology {
			slog.Warn("asset: skipping primitive", "name", pr.Name, "topology", pr.Topology.String(), "want", Topology.String())
			continue
		}
		ms, err := im.mesh(pr)
		if err != nil {
			as.Release()
			return nil, fmt.Errorf("asset.Import %q: %w", doc.Name, err)
		}
		ms.Model = world.Mul4(pr.Transform)
		as.Meshes = append(as.Meshes, ms)
	}
	slog.Debug("asset: imported", "name", as.Name, "meshes", len(as.Meshes), "textures", len(im.textures))
	return as, nil
}

// Rotation returns the rotation matrix for the given angles
// in degrees, applied about X first, then Y, then Z.
func Rotation(deg mgl32.Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(deg[0]))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(deg[1]))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(deg[2]))
	return rz.Mul4(ry).Mul4(rx)
}

type importer struct {
	dev  gpu.Device
	doc  *scene.Document
	opts Options

	// textures by path, shared between meshes
	textures map[string]*gpu.Texture
}

// check returns an error if the primitive lacks a required attribute.
func (im *importer) check(pr *scene.Primitive) error {
	nv := len(pr.Positions)
	switch {
	case nv == 0:
		return fmt.Errorf("%q: %w", pr.Name, ErrNoPositions)
	case len(pr.Indices) == 0:
		return fmt.Errorf("%q: %w", pr.Name, ErrNoIndices)
	case im.opts.MaxTexturesPerMesh > 0 && len(pr.UVs) == 0:
		return fmt.Errorf("%q: %w", pr.Name, ErrNoUVs)
	case len(pr.Normals) > 0 && len(pr.Normals) != nv:
		return fmt.Errorf("%q: %d normals for %d positions: %w", pr.Name, len(pr.Normals), nv, ErrAttributeCount)
	case len(pr.UVs) > 0 && len(pr.UVs) != nv:
		return fmt.Errorf("%q: %d uvs for %d positions: %w", pr.Name, len(pr.UVs), nv, ErrAttributeCount)
	}
	return nil
}

func (im *importer) mesh(pr *scene.Primitive) (*Mesh, error) {
	if err := im.check(pr); err != nil {
		return nil, err
	}
	nv := len(pr.Positions)
	ms := &Mesh{Name: pr.Name, VertexCount: nv, IndexCount: len(pr.Indices), Topology: pr.Topology}
	err := im.buffers(ms, pr)
	if err == nil {
		ms.Index, err = gpu.NewBuffer(im.dev, pr.Name+".index", gpu.Indices, len(pr.Indices), 4, im.opts.Storage, -1, PackIndices(pr.Indices))
	}
	if err == nil {
		err = ms.Validate(pr.Indices)
	}
	if err == nil && im.opts.MaxTexturesPerMesh > 0 {
		ms.Texture, err = im.texture(pr)
	}
	if err != nil {
		ms.Release()
		return nil, err
	}
	return ms, nil
}

// buffers creates the vertex buffers for the configured packing.
func (im *importer) buffers(ms *Mesh, pr *scene.Primitive) error {
	nv := len(pr.Positions)
	st := im.opts.Storage
	if im.opts.Packing == config.Interleaved {
		var norms [][3]float32
		if im.opts.IncludeNormals {
			norms = pr.Normals
		}
		b, err := gpu.NewBuffer(im.dev, pr.Name+".vertex", gpu.Interleaved, nv, InterleavedStride, st, gpu.VertexSlotBase, PackInterleaved(pr.Positions, norms, pr.UVs))
		if err != nil {
			return err
		}
		ms.Buffers = append(ms.Buffers, b)
		return nil
	}
	slot := gpu.VertexSlotBase
	add := func(kind gpu.BufferKinds, stride int, data []byte) error {
		b, err := gpu.NewBuffer(im.dev, pr.Name+"."+kind.String(), kind, nv, stride, st, slot, data)
		if err != nil {
			return err
		}
		ms.Buffers = append(ms.Buffers, b)
		slot++
		return nil
	}
	if err := add(gpu.Positions, 12, PackVec3(pr.Positions, nv)); err != nil {
		return err
	}
	if im.opts.IncludeNormals {
		if err := add(gpu.Normals, 12, PackVec3(pr.Normals, nv)); err != nil {
			return err
		}
	}
	return add(gpu.UVs, 8, PackVec2(pr.UVs, nv))
}

// texture returns the texture for the configured material slot,
// loading it on first use. It returns nil for primitives without
// one, and for embedded ones unless they are configured to fail.
func (im *importer) texture(pr *scene.Primitive) (*gpu.Texture, error) {
	ref := pr.BaseColor
	if im.opts.TextureSlot == config.MetallicRoughness {
		ref = pr.MetallicRoughness
	}
	if ref == nil {
		return nil, nil
	}
	if ref.Embedded {
		if im.opts.FailOnEmbeddedTexture {
			return nil, fmt.Errorf("%q: texture %q: %w", pr.Name, ref.Name, ErrEmbeddedTexture)
		}
		slog.Warn("asset: skipping embedded texture", "mesh", pr.Name, "texture", ref.Name)
		return nil, nil
	}
	path := im.doc.Path(ref)
	if tx, ok := im.textures[path]; ok {
		return tx, nil
	}
	img, err := OpenImage(path)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", pr.Name, err)
	}
	tx, err := gpu.NewTexture(im.dev, ref.URI, img, im.opts.Mips, im.opts.TextureSlot != config.MetallicRoughness)
	if err != nil {
		return nil, err
	}
	im.textures[path] = tx
	return tx, nil
}
