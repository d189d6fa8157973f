package render

import (
	"math"
	"testing"

	"github.com/taigrr/orbitview/pkg/math3d"
)

// testMesh implements BoundedMeshRenderer for testing.
type testMesh struct {
	vertices []math3d.Vec3
	faces    [][3]int
}

func (m *testMesh) VertexCount() int            { return len(m.vertices) }
func (m *testMesh) TriangleCount() int          { return len(m.faces) }
func (m *testMesh) GetVertex(i int) math3d.Vec3 { return m.vertices[i] }
func (m *testMesh) GetFace(i int) [3]int        { return m.faces[i] }

func (m *testMesh) GetBounds() (min, max math3d.Vec3) {
	min, max = m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// unboundedMesh hides GetBounds so no frustum test runs.
type unboundedMesh struct{ *testMesh }

func (m unboundedMesh) GetBounds() {}

// cubeMesh returns a cube of the given half size with outward CCW faces.
func cubeMesh(half float64, offset math3d.Vec3) *testMesh {
	m := &testMesh{
		vertices: []math3d.Vec3{
			// Front
			math3d.V3(-1, -1, 1), math3d.V3(1, -1, 1), math3d.V3(1, 1, 1), math3d.V3(-1, 1, 1),
			// Back
			math3d.V3(-1, -1, -1), math3d.V3(1, -1, -1), math3d.V3(1, 1, -1), math3d.V3(-1, 1, -1),
		},
		faces: [][3]int{
			{0, 1, 2}, {0, 2, 3}, // Front
			{4, 6, 5}, {4, 7, 6}, // Back
			{0, 3, 7}, {0, 7, 4}, // Left
			{1, 5, 6}, {1, 6, 2}, // Right
			{3, 2, 6}, {3, 6, 7}, // Top
			{0, 4, 5}, {0, 5, 1}, // Bottom
		},
	}
	for i, v := range m.vertices {
		m.vertices[i] = v.Scale(half).Add(offset)
	}
	return m
}

func newTestRenderer(width, height int) *Renderer {
	cam := NewCamera(float64(width), float64(height))
	return NewRenderer(cam, NewFramebuffer(width, height))
}

func TestRenderMeshFilled(t *testing.T) {
	r := newTestRenderer(64, 64)
	r.Background = RGB(30, 30, 40)

	stats := r.RenderMesh(cubeMesh(50, math3d.Zero3()))
	if stats.Triangles != 12 || stats.Drawn != 12 || stats.Culled != 0 || stats.MeshCulled {
		t.Errorf("stats = %+v, want 12 drawn", stats)
	}

	// Front face, facing the light head on
	want := Shade(r.Base, math3d.V3(0, 0, 1), math3d.V3(0, 0, 1))
	if c, _ := r.Framebuffer.GetPixel(32, 32); c != want {
		t.Errorf("centre pixel = %v, want %v", c, want)
	}
	z, _ := r.Framebuffer.DepthAt(32, 32)
	if z < -1 || z > 1 {
		t.Errorf("centre depth = %v, want within [-1, 1]", z)
	}

	if c, _ := r.Framebuffer.GetPixel(0, 0); c != r.Background {
		t.Errorf("corner pixel = %v, want background", c)
	}
}

func TestRenderMeshClearsPreviousFrame(t *testing.T) {
	r := newTestRenderer(32, 32)
	r.RenderMesh(cubeMesh(50, math3d.Zero3()))

	// Move the cube out of view and render again
	r.RenderMesh(cubeMesh(50, math3d.V3(5000, 0, 0)))
	for i, c := range r.Framebuffer.Pixels {
		if c != r.Background || !math.IsInf(r.Framebuffer.Depth[i], 1) {
			t.Fatalf("pixel %d not cleared: %v depth %v", i, c, r.Framebuffer.Depth[i])
		}
	}
}

func TestRenderMeshBandedMatchesSingle(t *testing.T) {
	mesh := cubeMesh(60, math3d.V3(10, -5, 0))

	render := func(workers int) *Framebuffer {
		r := newTestRenderer(97, 61)
		r.Workers = workers
		r.Camera.Rotate(0.6, -0.4)
		r.Camera.ZoomIn()
		r.RenderMesh(mesh)
		return r.Framebuffer
	}

	single := render(1)
	for _, workers := range []int{2, 3, 4, 7, 200} {
		banded := render(workers)
		for i := range single.Pixels {
			if single.Pixels[i] != banded.Pixels[i] || single.Depth[i] != banded.Depth[i] {
				t.Fatalf("workers=%d: pixel %d = %v/%v, want %v/%v", workers, i,
					banded.Pixels[i], banded.Depth[i], single.Pixels[i], single.Depth[i])
			}
		}
	}
}

func TestRenderMeshWireframe(t *testing.T) {
	r := newTestRenderer(64, 64)
	r.ToggleWireframe()
	if r.Mode != ModeWireframe {
		t.Fatalf("Mode = %v, want wireframe", r.Mode)
	}

	stats := r.RenderMesh(cubeMesh(50, math3d.Zero3()))
	if stats.Drawn != 12 {
		t.Errorf("Drawn = %d, want 12", stats.Drawn)
	}

	wire := 0
	for i, c := range r.Framebuffer.Pixels {
		if c == r.Wire {
			wire++
		}
		if !math.IsInf(r.Framebuffer.Depth[i], 1) {
			t.Fatalf("wireframe wrote depth at %d", i)
		}
	}
	if wire == 0 {
		t.Error("no wire pixels drawn")
	}

	r.ToggleWireframe()
	if r.Mode != ModeFilled {
		t.Errorf("Mode = %v, want filled", r.Mode)
	}
}

func TestRenderMeshFrustumCull(t *testing.T) {
	r := newTestRenderer(32, 32)
	stats := r.RenderMesh(cubeMesh(50, math3d.V3(5000, 0, 0)))

	if !stats.MeshCulled || stats.Culled != 12 || stats.Drawn != 0 {
		t.Errorf("stats = %+v, want whole mesh culled", stats)
	}
}

func TestRenderMeshFaceCulling(t *testing.T) {
	mesh := &testMesh{
		vertices: []math3d.Vec3{
			math3d.V3(-50, -50, 0), math3d.V3(50, -50, 0), math3d.V3(0, 50, 0),
			// Behind the eye at z=400
			math3d.V3(0, 0, 1000),
		},
		faces: [][3]int{
			{0, 1, 2},
			{0, 1, 3},  // Crosses the eye plane
			{0, 1, 99}, // Bad index
		},
	}

	r := newTestRenderer(32, 32)
	stats := r.RenderMesh(unboundedMesh{mesh})
	if stats.Triangles != 3 || stats.Drawn != 1 || stats.Culled != 2 {
		t.Errorf("stats = %+v, want 1 drawn 2 culled", stats)
	}
	if c, _ := r.Framebuffer.GetPixel(16, 16); c == r.Background {
		t.Error("visible face not drawn")
	}
}

func TestShade(t *testing.T) {
	base := RGB(200, 100, 40)
	light := math3d.V3(0, 0, 1)

	tests := []struct {
		name   string
		normal math3d.Vec3
		want   Color
	}{
		{"facing light", math3d.V3(0, 0, 1), RGB(200, 100, 40)},
		{"facing away", math3d.V3(0, 0, -1), RGB(30, 15, 6)},
		{"perpendicular", math3d.V3(1, 0, 0), RGB(30, 15, 6)},
		{"zero normal", math3d.Vec3{}, RGB(30, 15, 6)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Shade(base, tc.normal, light)
			// Allow one step of float truncation
			if absInt(int(got.R)-int(tc.want.R)) > 1 ||
				absInt(int(got.G)-int(tc.want.G)) > 1 ||
				absInt(int(got.B)-int(tc.want.B)) > 1 {
				t.Errorf("Shade(%v) = %v, want %v", tc.normal, got, tc.want)
			}
		})
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func BenchmarkRenderMesh(b *testing.B) {
	mesh := cubeMesh(60, math3d.Zero3())
	cases := []struct {
		name    string
		workers int
	}{
		{"single", 1},
		{"banded", 4},
	}

	for _, tc := range cases {
		r := newTestRenderer(320, 240)
		r.Workers = tc.workers
		r.Camera.Rotate(0.6, -0.4)
		b.Run(tc.name, func(b *testing.B) {
			for b.Loop() {
				r.RenderMesh(mesh)
			}
		})
	}
}
