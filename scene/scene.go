// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene reads glTF documents into flat lists of primitives
// with their vertex streams, indices, texture references and world
// transforms, ready for packing into GPU buffers.
package scene

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/gpudemo/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// TextureRef refers to an image used by a material.
type TextureRef struct {
	// Name of the image, if any.
	Name string

	// URI of the image file, relative to the document Root.
	// Empty for embedded images.
	URI string

	// MimeType of the image, when given by the document.
	MimeType string

	// Embedded is true when the image data lives inside the
	// document (a buffer view or a data URI) instead of a file.
	Embedded bool
}

// Primitive is one drawable piece of a glTF mesh, with its
// vertex streams copied out of the document accessors.
type Primitive struct {
	// Name is the mesh name plus primitive index.
	Name string

	// Topology of the primitive.
	Topology gpu.Topologies

	// Positions are required by importers.
	Positions [][3]float32

	// Normals, if present. Same length as Positions.
	Normals [][3]float32

	// UVs are the first set of texture coordinates, if present.
	UVs [][2]float32

	// Indices, widened to uint32. nil if the primitive is not indexed.
	Indices []uint32

	// BaseColor texture of the material, if any.
	BaseColor *TextureRef

	// MetallicRoughness texture of the material, if any.
	MetallicRoughness *TextureRef

	// Transform is the world matrix of the node holding the mesh.
	Transform mgl32.Mat4
}

// Document is a whole glTF file, flattened to its primitives.
type Document struct {
	// Name is the file name.
	Name string

	// Root is the directory relative URIs resolve against.
	Root string

	// Primitives in node traversal order.
	Primitives []*Primitive
}

// Open reads the glTF (.gltf or .glb) file at path, along with its
// external buffers, and flattens it.
func Open(path string) (*Document, error) {
	gd, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene.Open %q: %w", path, err)
	}
	return FromGLTF(gd, filepath.Base(path), filepath.Dir(path))
}

// FromGLTF flattens an already loaded glTF document, walking the
// node tree of the default scene to compute world transforms.
// A document without nodes yields each mesh once, untransformed.
func FromGLTF(gd *gltf.Document, name, root string) (*Document, error) {
	doc := &Document{Name: name, Root: root}
	if len(gd.Nodes) == 0 {
		for mi := range gd.Meshes {
			if err := doc.addMesh(gd, mi, mgl32.Ident4()); err != nil {
				return nil, err
			}
		}
		return doc, nil
	}
	for _, ni := range rootNodes(gd) {
		if err := doc.walk(gd, ni, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// rootNodes returns the nodes of the default scene, or of the
// first scene, or every node that is nobody's child.
func rootNodes(gd *gltf.Document) []int {
	if len(gd.Scenes) > 0 {
		si := 0
		if gd.Scene != nil && *gd.Scene < len(gd.Scenes) {
			si = *gd.Scene
		}
		return gd.Scenes[si].Nodes
	}
	child := make(map[int]bool)
	for _, n := range gd.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range gd.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// maxDepth bounds the node walk against cyclic documents.
const maxDepth = 64

func (doc *Document) walk(gd *gltf.Document, ni int, parent mgl32.Mat4, depth int) error {
	if ni < 0 || ni >= len(gd.Nodes) {
		return fmt.Errorf("scene: node index %d out of range", ni)
	}
	if depth > maxDepth {
		return fmt.Errorf("scene: node tree deeper than %d", maxDepth)
	}
	nd := gd.Nodes[ni]
	world := parent.Mul4(NodeMatrix(nd))
	if nd.Mesh != nil {
		if err := doc.addMesh(gd, *nd.Mesh, world); err != nil {
			return err
		}
	}
	for _, c := range nd.Children {
		if err := doc.walk(gd, c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// NodeMatrix returns the local transform of the node: its matrix
// if one is given, else translation * rotation * scale.
func NodeMatrix(nd *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	set := false
	for i, v := range nd.Matrix {
		m[i] = float32(v)
		if v != 0 {
			set = true
		}
	}
	if set && m != mgl32.Ident4() {
		return m
	}
	tr := nd.Translation
	t := mgl32.Translate3D(float32(tr[0]), float32(tr[1]), float32(tr[2]))
	r := mgl32.Ident4()
	if q := nd.Rotation; q != [4]float64{} {
		r = mgl32.Quat{W: float32(q[3]), V: mgl32.Vec3{float32(q[0]), float32(q[1]), float32(q[2])}}.Normalize().Mat4()
	}
	s := mgl32.Ident4()
	if sc := nd.Scale; sc != [3]float64{} {
		s = mgl32.Scale3D(float32(sc[0]), float32(sc[1]), float32(sc[2]))
	}
	return t.Mul4(r).Mul4(s)
}

// Topologies maps glTF primitive modes to GPU topologies.
// Loops and fans have no WebGPU equivalent.
var Topologies = map[gltf.PrimitiveMode]gpu.Topologies{
	gltf.PrimitivePoints:        gpu.PointList,
	gltf.PrimitiveLines:         gpu.LineList,
	gltf.PrimitiveLineStrip:     gpu.LineStrip,
	gltf.PrimitiveTriangles:     gpu.TriangleList,
	gltf.PrimitiveTriangleStrip: gpu.TriangleStrip,
}

func (doc *Document) addMesh(gd *gltf.Document, mi int, world mgl32.Mat4) error {
	if mi < 0 || mi >= len(gd.Meshes) {
		return fmt.Errorf("scene: mesh index %d out of range", mi)
	}
	ms := gd.Meshes[mi]
	for pi, gp := range ms.Primitives {
		name := fmt.Sprintf("%s.%d", ms.Name, pi)
		topo, ok := Topologies[gp.Mode]
		if !ok {
			slog.Warn("scene: skipping primitive with unsupported mode", "primitive", name, "mode", gp.Mode)
			continue
		}
		pr := &Primitive{Name: name, Topology: topo, Transform: world}
		if err := readPrimitive(gd, gp, pr); err != nil {
			return fmt.Errorf("scene: primitive %q: %w", name, err)
		}
		if gp.Material != nil && *gp.Material < len(gd.Materials) {
			readMaterial(gd, gd.Materials[*gp.Material], pr)
		}
		doc.Primitives = append(doc.Primitives, pr)
	}
	return nil
}

func accessor(gd *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(gd.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return gd.Accessors[idx], nil
}

func readPrimitive(gd *gltf.Document, gp *gltf.Primitive, pr *Primitive) error {
	var errs []error
	if ai, ok := gp.Attributes[gltf.POSITION]; ok {
		acr, err := accessor(gd, ai)
		if err == nil {
			pr.Positions, err = modeler.ReadPosition(gd, acr, nil)
		}
		errs = append(errs, err)
	}
	if ai, ok := gp.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(gd, ai)
		if err == nil {
			pr.Normals, err = modeler.ReadNormal(gd, acr, nil)
		}
		errs = append(errs, err)
	}
	if ai, ok := gp.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := accessor(gd, ai)
		if err == nil {
			pr.UVs, err = modeler.ReadTextureCoord(gd, acr, nil)
		}
		errs = append(errs, err)
	}
	if gp.Indices != nil {
		acr, err := accessor(gd, *gp.Indices)
		if err == nil {
			pr.Indices, err = modeler.ReadIndices(gd, acr, nil)
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func readMaterial(gd *gltf.Document, mt *gltf.Material, pr *Primitive) {
	pbr := mt.PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if pbr.BaseColorTexture != nil {
		pr.BaseColor = textureRef(gd, pbr.BaseColorTexture.Index)
	}
	if pbr.MetallicRoughnessTexture != nil {
		pr.MetallicRoughness = textureRef(gd, pbr.MetallicRoughnessTexture.Index)
	}
}

func textureRef(gd *gltf.Document, ti int) *TextureRef {
	if ti < 0 || ti >= len(gd.Textures) {
		return nil
	}
	tx := gd.Textures[ti]
	if tx.Source == nil || *tx.Source >= len(gd.Images) {
		return nil
	}
	im := gd.Images[*tx.Source]
	ref := &TextureRef{Name: im.Name, MimeType: im.MimeType}
	if im.BufferView != nil || strings.HasPrefix(im.URI, "data:") {
		ref.Embedded = true
		return ref
	}
	ref.URI = im.URI
	if ref.Name == "" {
		ref.Name = im.URI
	}
	return ref
}

// Path returns the file path of the texture, relative to the
// document root. Empty for embedded textures.
func (doc *Document) Path(ref *TextureRef) string {
	if ref == nil || ref.Embedded || ref.URI == "" {
		return ""
	}
	if filepath.IsAbs(ref.URI) {
		return ref.URI
	}
	return filepath.Join(doc.Root, filepath.FromSlash(ref.URI))
}
