package render

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/orbitview/pkg/math3d"
)

// Mode selects how mesh faces are drawn.
type Mode int

const (
	ModeFilled Mode = iota
	ModeWireframe
)

func (m Mode) String() string {
	if m == ModeWireframe {
		return "Wireframe"
	}
	return "Filled"
}

// Lambert shading terms.
const (
	Ambient = 0.15
	Diffuse = 0.85
)

// MeshRenderer is implemented by models.Mesh.
// Declared here so render does not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// Stats counts what happened to a mesh during one RenderMesh call.
type Stats struct {
	Triangles  int  // Faces in the mesh
	Drawn      int  // Faces handed to the rasterizer
	Culled     int  // Faces dropped before rasterization
	MeshCulled bool // Whole mesh outside the view frustum
}

// Renderer draws a mesh through a camera into a framebuffer, one frame per
// RenderMesh call.
type Renderer struct {
	Camera      *Camera
	Framebuffer *Framebuffer

	Background Color
	Base       Color       // Surface color before shading
	Wire       Color       // Line color in ModeWireframe
	Light      math3d.Vec3 // Direction towards the light, world space
	Mode       Mode

	// Workers > 1 splits filled rasterization into that many row bands.
	Workers int

	// Per-frame scratch, reused between frames
	projected []math3d.Vec3
	valid     []bool
	tris      [][3]Vertex
}

// NewRenderer creates a renderer with a head-on light and a gray surface.
func NewRenderer(cam *Camera, fb *Framebuffer) *Renderer {
	return &Renderer{
		Camera:      cam,
		Framebuffer: fb,
		Background:  ColorBlack,
		Base:        RGB(200, 200, 200),
		Wire:        ColorWire,
		Light:       math3d.V3(0, 0, 1),
		Workers:     1,
	}
}

// ToggleWireframe switches between filled and wireframe drawing.
func (r *Renderer) ToggleWireframe() {
	if r.Mode == ModeWireframe {
		r.Mode = ModeFilled
	} else {
		r.Mode = ModeWireframe
	}
}

// RenderMesh clears the framebuffer and draws mesh with the camera's current
// state. All projection happens before any pixel is written.
func (r *Renderer) RenderMesh(mesh MeshRenderer) Stats {
	fb := r.Framebuffer
	fb.Clear(r.Background)

	stats := Stats{Triangles: mesh.TriangleCount()}
	mvp := r.Camera.MVPMatrix()

	if bounded, ok := mesh.(BoundedMeshRenderer); ok {
		// MVP planes are in object space, so bounds are tested untransformed
		if !NewFrustumFromMatrix(mvp).IntersectAABB(NewAABB(bounded.GetBounds())) {
			stats.Culled = stats.Triangles
			stats.MeshCulled = true
			return stats
		}
	}

	r.project(mesh, mvp)
	r.assemble(mesh)
	stats.Drawn = len(r.tris)
	stats.Culled = stats.Triangles - stats.Drawn

	if r.Mode == ModeWireframe {
		for _, t := range r.tris {
			DrawTriangleWireframe(fb, t[0], t[1], t[2], r.Wire)
		}
		return stats
	}
	r.fill()
	return stats
}

func (r *Renderer) project(mesh MeshRenderer, mvp math3d.Mat4) {
	n := mesh.VertexCount()
	if cap(r.projected) < n {
		r.projected = make([]math3d.Vec3, n)
		r.valid = make([]bool, n)
	}
	r.projected = r.projected[:n]
	r.valid = r.valid[:n]

	w, h := float64(r.Framebuffer.Width), float64(r.Framebuffer.Height)
	for i := range n {
		r.projected[i], r.valid[i] = ProjectWithMatrix(mvp, mesh.GetVertex(i), w, h)
	}
}

// assemble shades every face whose vertices all projected inside the depth
// range and collects it for rasterization.
func (r *Renderer) assemble(mesh MeshRenderer) {
	model := r.Camera.ModelMatrix()
	light := r.Light.Normalize()
	n := len(r.projected)

	r.tris = r.tris[:0]
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		if !r.faceVisible(face, n) {
			continue
		}

		a, b, c := mesh.GetVertex(face[0]), mesh.GetVertex(face[1]), mesh.GetVertex(face[2])
		normal := model.MulDir(b.Sub(a).Cross(c.Sub(a))).Normalize()
		col := Shade(r.Base, normal, light)

		r.tris = append(r.tris, [3]Vertex{
			{Position: r.projected[face[0]], Color: col},
			{Position: r.projected[face[1]], Color: col},
			{Position: r.projected[face[2]], Color: col},
		})
	}
}

func (r *Renderer) faceVisible(face [3]int, n int) bool {
	for _, idx := range face {
		if idx < 0 || idx >= n || !r.valid[idx] {
			return false
		}
		z := r.projected[idx].Z
		if z < -1 || z > 1 {
			return false
		}
	}
	return true
}

func (r *Renderer) fill() {
	fb := r.Framebuffer
	workers := min(r.Workers, fb.Height)
	if workers <= 1 {
		for _, t := range r.tris {
			DrawTriangleFilled(fb, t[0], t[1], t[2])
		}
		return
	}

	// Each band owns its rows outright; triangle order within a band is
	// the same as single-threaded, so the result is identical.
	band := (fb.Height + workers - 1) / workers
	var g errgroup.Group
	for rowMin := 0; rowMin < fb.Height; rowMin += band {
		rowMax := min(rowMin+band, fb.Height)
		g.Go(func() error {
			for _, t := range r.tris {
				DrawTriangleFilledRows(fb, t[0], t[1], t[2], rowMin, rowMax)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Shade applies Lambert lighting to base. normal and light must be unit
// length; a zero normal gets ambient light only.
func Shade(base Color, normal, light math3d.Vec3) Color {
	intensity := Ambient + Diffuse*math.Max(normal.Dot(light), 0)
	intensity = math.Min(intensity, 1)
	return RGB(
		uint8(float64(base.R)*intensity),
		uint8(float64(base.G)*intensity),
		uint8(float64(base.B)*intensity),
	)
}
