package render

import (
	"math"

	"github.com/taigrr/orbitview/pkg/math3d"
)

// Vertex is a projected vertex ready for rasterization.
// Position holds pixel X and Y and NDC depth in Z.
type Vertex struct {
	Position math3d.Vec3
	Color    Color
}

// Barycentric returns the weights of p relative to triangle (a, b, c),
// in that vertex order, using only X and Y.
// ok is false for a degenerate (zero-area) triangle.
func Barycentric(p, a, b, c math3d.Vec3) (weights math3d.Vec3, ok bool) {
	v0x, v0y := c.X-a.X, c.Y-a.Y
	v1x, v1y := b.X-a.X, b.Y-a.Y
	v2x, v2y := p.X-a.X, p.Y-a.Y

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 || math.IsNaN(denom) {
		return math3d.Vec3{}, false
	}
	invDenom := 1.0 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	// u weights c, v weights b
	return math3d.V3(1-u-v, v, u), true
}

// insideTriangle is edge-inclusive with no fill-rule tie break.
func insideTriangle(bc math3d.Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}

// depthInRange reports whether every vertex has a finite NDC depth in [-1, 1].
func depthInRange(v0, v1, v2 Vertex) bool {
	for _, v := range [3]Vertex{v0, v1, v2} {
		p := v.Position
		if !p.IsFinite() || p.Z < -1 || p.Z > 1 {
			return false
		}
	}
	return true
}

// DrawTriangleFilled rasterizes a solid triangle with per-pixel depth
// testing, interpolating depth and color across it.
// Triangles with a vertex outside the NDC depth range, or with zero area,
// are skipped.
func DrawTriangleFilled(fb *Framebuffer, v0, v1, v2 Vertex) {
	DrawTriangleFilledRows(fb, v0, v1, v2, 0, fb.Height)
}

// DrawTriangleFilledRows is DrawTriangleFilled restricted to framebuffer
// rows [rowMin, rowMax). Workers rasterizing disjoint row bands never touch
// the same pixel.
func DrawTriangleFilledRows(fb *Framebuffer, v0, v1, v2 Vertex, rowMin, rowMax int) {
	if !depthInRange(v0, v1, v2) {
		return
	}
	p0, p1, p2 := v0.Position, v1.Position, v2.Position

	// Bounding box clamped to the framebuffer and the row band
	rowMin = max(rowMin, 0)
	rowMax = min(rowMax, fb.Height)
	minX := clampInt(math.Floor(min3(p0.X, p1.X, p2.X)), 0, fb.Width)
	maxX := clampInt(math.Ceil(max3(p0.X, p1.X, p2.X)), -1, fb.Width-1)
	minY := clampInt(math.Floor(min3(p0.Y, p1.Y, p2.Y)), rowMin, rowMax)
	maxY := clampInt(math.Ceil(max3(p0.Y, p1.Y, p2.Y)), rowMin-1, rowMax-1)
	if minX > maxX || minY > maxY {
		return
	}

	if _, ok := Barycentric(p0, p0, p1, p2); !ok {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math3d.V3(float64(x)+0.5, float64(y)+0.5, 0)
			bc, _ := Barycentric(p, p0, p1, p2)
			if !insideTriangle(bc) {
				continue
			}

			z := bc.X*p0.Z + bc.Y*p1.Z + bc.Z*p2.Z
			fb.SetPixelWithDepth(x, y, z, interpolateColor3(v0.Color, v1.Color, v2.Color, bc))
		}
	}
}

// DrawTriangleWireframe draws the three edges of a triangle with no depth
// test. Vertex positions are truncated to whole pixels.
func DrawTriangleWireframe(fb *Framebuffer, v0, v1, v2 Vertex, c Color) {
	if !depthInRange(v0, v1, v2) {
		return
	}
	x0, y0 := int(v0.Position.X), int(v0.Position.Y)
	x1, y1 := int(v1.Position.X), int(v1.Position.Y)
	x2, y2 := int(v2.Position.X), int(v2.Position.Y)

	fb.DrawLine(x0, y0, x1, y1, c)
	fb.DrawLine(x1, y1, x2, y2, c)
	fb.DrawLine(x2, y2, x0, y0, c)
}

// interpolateColor3 blends three colors by barycentric weights, truncating
// each channel.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		channel(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		channel(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		channel(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

// channelBias absorbs rounding in weights that should sum to exactly one,
// so a uniform 255 does not truncate to 254.
const channelBias = 1e-6

func channel(v float64) uint8 {
	v += channelBias
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// clampInt converts v to an int within [lo, hi], clamping in float space
// first so far off-screen coordinates cannot overflow.
func clampInt(v float64, lo, hi int) int {
	return int(math.Max(float64(lo), math.Min(float64(hi), v)))
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
