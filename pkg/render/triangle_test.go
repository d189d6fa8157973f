package render

import (
	"math"
	"testing"

	"github.com/taigrr/orbitview/pkg/math3d"
)

func vert(x, y, z float64, c Color) Vertex {
	return Vertex{Position: math3d.V3(x, y, z), Color: c}
}

func TestBarycentric(t *testing.T) {
	a, b, c := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)

	tests := []struct {
		name     string
		p        math3d.Vec3
		expected math3d.Vec3
	}{
		{"vertex a", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0)},
		{"vertex b", math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{"vertex c", math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
		{"centroid", math3d.V3(1.0/3, 1.0/3, 0), math3d.V3(1.0/3, 1.0/3, 1.0/3)},
		{"ignores z", math3d.V3(0.25, 0.25, 42), math3d.V3(0.5, 0.25, 0.25)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc, ok := Barycentric(tc.p, a, b, c)
			if !ok {
				t.Fatal("expected non-degenerate triangle")
			}
			if math.Abs(bc.X-tc.expected.X) > 1e-9 ||
				math.Abs(bc.Y-tc.expected.Y) > 1e-9 ||
				math.Abs(bc.Z-tc.expected.Z) > 1e-9 {
				t.Errorf("Barycentric(%v) = %v, want %v", tc.p, bc, tc.expected)
			}
		})
	}

	t.Run("outside triangle", func(t *testing.T) {
		bc, _ := Barycentric(math3d.V3(-1, -1, 0), a, b, c)
		if insideTriangle(bc) {
			t.Errorf("point outside triangle gave weights %v", bc)
		}
	})

	t.Run("degenerate", func(t *testing.T) {
		if _, ok := Barycentric(math3d.V3(0.5, 0.5, 0), a, b, math3d.V3(2, 0, 0)); ok {
			t.Error("collinear triangle should be degenerate")
		}
		if _, ok := Barycentric(a, a, a, a); ok {
			t.Error("point triangle should be degenerate")
		}
	})
}

func TestBarycentricPartitionOfUnity(t *testing.T) {
	tris := [][3]math3d.Vec3{
		{math3d.V3(0, 0, 0), math3d.V3(10, 0, 0), math3d.V3(0, 10, 0)},
		{math3d.V3(3.3, -7.1, 0), math3d.V3(-12.5, 4.2, 0), math3d.V3(8, 19.75, 0)},
		{math3d.V3(100, 100, 0), math3d.V3(100.5, 100, 0), math3d.V3(100, 100.25, 0)},
	}
	points := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1.5, 2.5, 0),
		math3d.V3(-40, 13, 0),
		math3d.V3(100.1, 100.1, 0),
	}

	for _, tri := range tris {
		for _, p := range points {
			bc, ok := Barycentric(p, tri[0], tri[1], tri[2])
			if !ok {
				t.Fatalf("triangle %v reported degenerate", tri)
			}
			if sum := bc.X + bc.Y + bc.Z; math.Abs(sum-1) > 1e-9 {
				t.Errorf("weights %v for %v sum to %v", bc, p, sum)
			}
		}
	}
}

func TestBarycentricInsideOutside(t *testing.T) {
	a, b, c := math3d.V3(1, 1, 0), math3d.V3(9, 2, 0), math3d.V3(4, 8, 0)

	tests := []struct {
		name   string
		p      math3d.Vec3
		inside bool
	}{
		{"centroid", math3d.V3(14.0/3, 11.0/3, 0), true},
		{"near a", math3d.V3(1.5, 1.5, 0), true},
		{"left of ac", math3d.V3(1, 5, 0), false},
		{"below ab", math3d.V3(5, 0, 0), false},
		{"right of bc", math3d.V3(9, 8, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc, _ := Barycentric(tc.p, a, b, c)
			if got := insideTriangle(bc); got != tc.inside {
				t.Errorf("inside(%v) = %v (weights %v), want %v", tc.p, got, bc, tc.inside)
			}
		})
	}
}

func TestDrawTriangleFilledScenario(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	DrawTriangleFilled(fb,
		vert(0.5, 0.5, 0.5, ColorRed),
		vert(3.5, 0.5, 0.5, ColorRed),
		vert(0.5, 3.5, 0.5, ColorRed),
	)

	for y := range 4 {
		for x := range 4 {
			c, _ := fb.GetPixel(x, y)
			z, _ := fb.DepthAt(x, y)
			if x+y <= 3 {
				if c != ColorRed {
					t.Errorf("pixel (%d,%d) = %v, want red", x, y, c)
				}
				if math.Abs(z-0.5) > 1e-9 {
					t.Errorf("depth (%d,%d) = %v, want 0.5", x, y, z)
				}
			} else {
				if c != ColorBlack {
					t.Errorf("pixel (%d,%d) = %v, want black", x, y, c)
				}
				if !math.IsInf(z, 1) {
					t.Errorf("depth (%d,%d) = %v, want +Inf", x, y, z)
				}
			}
		}
	}
}

func TestDrawTriangleFilledNearerWins(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	DrawTriangleFilled(fb,
		vert(0.5, 0.5, 0.8, ColorRed),
		vert(3.5, 0.5, 0.8, ColorRed),
		vert(0.5, 3.5, 0.8, ColorRed),
	)

	// Small triangle around the centre of pixel (1,1)
	DrawTriangleFilled(fb,
		vert(1, 1, 0.2, ColorBlue),
		vert(2.2, 1, 0.2, ColorBlue),
		vert(1, 2.2, 0.2, ColorBlue),
	)
	if c, _ := fb.GetPixel(1, 1); c != ColorBlue {
		t.Fatalf("pixel (1,1) = %v, want blue", c)
	}
	if z, _ := fb.DepthAt(1, 1); math.Abs(z-0.2) > 1e-9 {
		t.Fatalf("depth (1,1) = %v, want 0.2", z)
	}

	DrawTriangleFilled(fb,
		vert(1, 1, 0.9, ColorGreen),
		vert(2.2, 1, 0.9, ColorGreen),
		vert(1, 2.2, 0.9, ColorGreen),
	)
	if c, _ := fb.GetPixel(1, 1); c != ColorBlue {
		t.Errorf("farther triangle overwrote pixel (1,1): %v", c)
	}
	if z, _ := fb.DepthAt(1, 1); math.Abs(z-0.2) > 1e-9 {
		t.Errorf("depth (1,1) = %v, want 0.2", z)
	}

	// Pixels only the first triangle covered keep its depth
	if z, _ := fb.DepthAt(0, 0); math.Abs(z-0.8) > 1e-9 {
		t.Errorf("depth (0,0) = %v, want 0.8", z)
	}
}

func TestDrawTriangleFilledSkipsInvalid(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 Vertex
	}{
		{"depth above range", vert(0, 0, 1.5, ColorRed), vert(8, 0, 0, ColorRed), vert(0, 8, 0, ColorRed)},
		{"depth below range", vert(0, 0, -1.01, ColorRed), vert(8, 0, 0, ColorRed), vert(0, 8, 0, ColorRed)},
		{"nan depth", vert(0, 0, math.NaN(), ColorRed), vert(8, 0, 0, ColorRed), vert(0, 8, 0, ColorRed)},
		{"infinite x", vert(math.Inf(1), 0, 0, ColorRed), vert(8, 0, 0, ColorRed), vert(0, 8, 0, ColorRed)},
		{"collinear", vert(0, 0, 0, ColorRed), vert(4, 4, 0, ColorRed), vert(8, 8, 0, ColorRed)},
		{"all vertices equal", vert(2, 2, 0, ColorRed), vert(2, 2, 0, ColorRed), vert(2, 2, 0, ColorRed)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(8, 8)
			DrawTriangleFilled(fb, tc.v0, tc.v1, tc.v2)
			for i, c := range fb.Pixels {
				if c != ColorBlack {
					t.Fatalf("pixel %d written: %v", i, c)
				}
			}
		})
	}
}

func TestDrawTriangleFilledDepthRangeEdges(t *testing.T) {
	// -1 and 1 are inside the range
	fb := NewFramebuffer(8, 8)
	DrawTriangleFilled(fb, vert(0, 0, -1, ColorRed), vert(8, 0, 1, ColorRed), vert(0, 8, 1, ColorRed))
	if c, _ := fb.GetPixel(1, 1); c != ColorRed {
		t.Errorf("pixel (1,1) = %v, want red", c)
	}
}

func TestDrawTriangleFilledClipsToFramebuffer(t *testing.T) {
	fb := NewFramebuffer(6, 6)
	// Much larger than the framebuffer on every side
	DrawTriangleFilled(fb,
		vert(-1e12, -1e12, 0, ColorGreen),
		vert(1e12, -1e12, 0, ColorGreen),
		vert(0, 1e12, 0, ColorGreen),
	)
	for i, c := range fb.Pixels {
		if c != ColorGreen {
			t.Fatalf("pixel %d = %v, want green", i, c)
		}
	}

	// Entirely off-screen: nothing drawn, no panic
	fb.Clear(ColorBlack)
	DrawTriangleFilled(fb, vert(-50, -50, 0, ColorRed), vert(-40, -50, 0, ColorRed), vert(-50, -40, 0, ColorRed))
	for i, c := range fb.Pixels {
		if c != ColorBlack {
			t.Fatalf("pixel %d = %v, want black", i, c)
		}
	}
}

func TestDrawTriangleFilledRowsBand(t *testing.T) {
	v0, v1, v2 := vert(0, 0, 0, ColorRed), vert(16, 0, 0, ColorRed), vert(0, 16, 0, ColorRed)

	full := NewFramebuffer(16, 16)
	DrawTriangleFilled(full, v0, v1, v2)

	banded := NewFramebuffer(16, 16)
	DrawTriangleFilledRows(banded, v0, v1, v2, 4, 9)

	for y := range 16 {
		for x := range 16 {
			got, _ := banded.GetPixel(x, y)
			want, _ := full.GetPixel(x, y)
			if y < 4 || y >= 9 {
				want = ColorBlack
			}
			if got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestInterpolateColor3(t *testing.T) {
	c0 := RGB(255, 0, 0)
	c1 := RGB(0, 255, 0)
	c2 := RGB(0, 0, 255)

	tests := []struct {
		name     string
		bc       math3d.Vec3
		expected Color
	}{
		{"pure c0", math3d.V3(1, 0, 0), RGB(255, 0, 0)},
		{"pure c1", math3d.V3(0, 1, 0), RGB(0, 255, 0)},
		{"pure c2", math3d.V3(0, 0, 1), RGB(0, 0, 255)},
		{"half c0 c1", math3d.V3(0.5, 0.5, 0), RGB(127, 127, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := interpolateColor3(c0, c1, c2, tc.bc)
			if got != tc.expected {
				t.Errorf("interpolateColor3(%v) = %v, want %v", tc.bc, got, tc.expected)
			}
		})
	}

	t.Run("thirds of white", func(t *testing.T) {
		third := 1.0 / 3
		got := interpolateColor3(ColorWhite, ColorWhite, ColorWhite, math3d.V3(third, third, third))
		if got != ColorWhite {
			t.Errorf("got %v, want white", got)
		}
	})
}

func TestDrawTriangleWireframe(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	DrawTriangleWireframe(fb, vert(1, 1, 0, ColorBlack), vert(8, 1, 0, ColorBlack), vert(1, 8, 0, ColorBlack), ColorWire)

	for _, p := range [][2]int{{1, 1}, {8, 1}, {1, 8}, {4, 1}, {1, 4}} {
		if c, _ := fb.GetPixel(p[0], p[1]); c != ColorWire {
			t.Errorf("pixel %v = %v, want wire color", p, c)
		}
	}
	// Interior stays empty
	if c, _ := fb.GetPixel(3, 3); c != ColorBlack {
		t.Errorf("interior pixel = %v, want black", c)
	}
	// Lines do not touch depth
	if z, _ := fb.DepthAt(1, 1); !math.IsInf(z, 1) {
		t.Errorf("depth = %v, want +Inf", z)
	}

	fb.Clear(ColorBlack)
	DrawTriangleWireframe(fb, vert(1, 1, 2, ColorBlack), vert(8, 1, 0, ColorBlack), vert(1, 8, 0, ColorBlack), ColorWire)
	if c, _ := fb.GetPixel(4, 1); c != ColorBlack {
		t.Error("wireframe with out-of-range depth should be skipped")
	}
}

func TestMin3Max3(t *testing.T) {
	if got := min3(3, -1, 2); got != -1 {
		t.Errorf("min3 = %v, want -1", got)
	}
	if got := max3(3, -1, 2); got != 3 {
		t.Errorf("max3 = %v, want 3", got)
	}
}

func BenchmarkDrawTriangleFilled(b *testing.B) {
	fb := NewFramebuffer(320, 240)
	v0 := vert(10, 10, 0.2, ColorRed)
	v1 := vert(300, 30, 0.5, ColorGreen)
	v2 := vert(150, 230, 0.8, ColorBlue)

	for b.Loop() {
		fb.Clear(ColorBlack)
		DrawTriangleFilled(fb, v0, v1, v2)
	}
}
