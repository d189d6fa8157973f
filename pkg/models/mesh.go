// Package models loads triangle meshes for orbitview from OBJ, STL and glTF
// files.
package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/orbitview/pkg/math3d"
)

// ErrIndexOutOfRange is returned by Validate for faces that reference
// missing vertices.
var ErrIndexOutOfRange = errors.New("face index out of range")

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    [][3]int // Indices into Vertices

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([][3]int, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
// An empty mesh has zero bounds.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulPoint(m.Vertices[i])
	}
	m.CalculateBounds()
}

// Normalize centres the mesh on the origin and scales it uniformly so its
// largest extent equals targetSize. Flat meshes along every axis are only
// centred.
func (m *Mesh) Normalize(targetSize float64) {
	m.CalculateBounds()
	center := m.Center()
	extent := m.Size().MaxComponent()

	scale := 1.0
	if extent > 0 && !math.IsInf(extent, 0) {
		scale = targetSize / extent
	}
	m.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Negate())))
}

// Validate reports the first face that references a missing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d: %w: %d not in [0, %d)", i, ErrIndexOutOfRange, idx, n)
			}
		}
	}
	return nil
}

// GetVertex returns the position of vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i]
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// fan appends the fan triangulation of a convex polygon.
func (m *Mesh) fan(poly []int) {
	for i := 1; i+1 < len(poly); i++ {
		m.Faces = append(m.Faces, [3]int{poly[0], poly[i], poly[i+1]})
	}
}
