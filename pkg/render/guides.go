package render

import (
	"github.com/taigrr/orbitview/pkg/math3d"
)

// boxEdges indexes the corners produced by boxCorners.
var boxEdges = [12][2]int{
	// Back face
	{0, 1},
	{1, 3},
	{3, 2},
	{2, 0},
	// Front face
	{4, 5},
	{5, 7},
	{7, 6},
	{6, 4},
	// Connecting edges
	{0, 4},
	{1, 5},
	{2, 6},
	{3, 7},
}

// drawLine3D projects an object-space segment with mvp and draws it.
// Segments with an endpoint outside the depth range are skipped rather than
// clipped.
func drawLine3D(fb *Framebuffer, mvp math3d.Mat4, a, b math3d.Vec3, c Color) {
	w, h := float64(fb.Width), float64(fb.Height)
	pa, okA := ProjectWithMatrix(mvp, a, w, h)
	pb, okB := ProjectWithMatrix(mvp, b, w, h)
	if !okA || !okB {
		return
	}
	if !inDepthRange(pa) || !inDepthRange(pb) {
		return
	}
	fb.DrawLine(int(pa.X), int(pa.Y), int(pb.X), int(pb.Y), c)
}

func inDepthRange(p math3d.Vec3) bool {
	return p.IsFinite() && p.Z >= -1 && p.Z <= 1
}

// DrawAxes draws the object-space X, Y and Z axes from the origin in red,
// green and blue. Lines ignore depth so they stay visible over the mesh.
func DrawAxes(fb *Framebuffer, cam *Camera, length float64) {
	mvp := cam.MVPMatrix()
	origin := math3d.Zero3()
	drawLine3D(fb, mvp, origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	drawLine3D(fb, mvp, origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	drawLine3D(fb, mvp, origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawBox draws the twelve edges of an object-space box.
func DrawBox(fb *Framebuffer, cam *Camera, box AABB, c Color) {
	mvp := cam.MVPMatrix()
	corners := boxCorners(box)
	for _, edge := range boxEdges {
		drawLine3D(fb, mvp, corners[edge[0]], corners[edge[1]], c)
	}
}

// boxCorners returns the corners with bit 0 selecting max X, bit 1 max Y
// and bit 2 max Z.
func boxCorners(box AABB) [8]math3d.Vec3 {
	var out [8]math3d.Vec3
	for i := range out {
		out[i] = math3d.V3(
			pick(i&1 != 0, box.Max.X, box.Min.X),
			pick(i&2 != 0, box.Max.Y, box.Min.Y),
			pick(i&4 != 0, box.Max.Z, box.Min.Z),
		)
	}
	return out
}
