package render

import (
	"math"

	"github.com/taigrr/orbitview/pkg/math3d"
)

// Orbit camera defaults.
const (
	DefaultDistance = 400.0
	DefaultFOV      = math.Pi / 4
	DefaultNear     = 0.1
	DefaultFar      = 1000.0

	// AutoRotateSpeed is the yaw rate in radians per second while auto-rotating.
	AutoRotateSpeed = 0.5
	// ZoomStep is the scale factor applied by one ZoomIn or ZoomOut.
	ZoomStep = 1.1
	// MinScale is the smallest model scale ZoomOut will produce.
	MinScale = 1e-3
	// PitchLimit bounds RotationX to [-PitchLimit, PitchLimit].
	PitchLimit = math.Pi/2 - 0.1
)

// Camera is an orbit camera: a fixed eye looking at a target while the model
// itself is rotated and scaled in front of it.
// Matrices are derived from the fields on every call, so mutating a field
// takes effect on the next query.
type Camera struct {
	// Model orientation in radians
	RotationX float64 // Pitch, around X
	RotationY float64 // Yaw, around Y

	Scale      float64 // Uniform model scale
	AutoRotate bool    // Advance yaw in Update

	// View
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Projection
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64
}

// NewCamera creates a camera for a viewport of the given size.
func NewCamera(width, height float64) *Camera {
	c := &Camera{
		Up:          math3d.Up(),
		FOV:         DefaultFOV,
		AspectRatio: 1,
		Near:        DefaultNear,
		Far:         DefaultFar,
	}
	c.Reset()
	c.SetAspectRatio(width, height)
	return c
}

// Reset restores rotation, scale, auto-rotate and eye/target to their
// defaults. Aspect ratio, FOV and clip planes are left alone.
func (c *Camera) Reset() {
	c.RotationX = 0
	c.RotationY = 0
	c.Scale = 1
	c.AutoRotate = false
	c.Position = math3d.V3(0, 0, DefaultDistance)
	c.Target = math3d.Zero3()
}

// Update advances auto-rotation by dt seconds.
func (c *Camera) Update(dt float64) {
	if c.AutoRotate {
		c.RotationY += dt * AutoRotateSpeed
	}
}

// Rotate adds deltaYaw to the yaw and deltaPitch to the pitch, then clamps
// the pitch. Yaw is unbounded.
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.RotationY += deltaYaw
	c.RotationX += deltaPitch
	c.RotationX = math.Max(-PitchLimit, math.Min(PitchLimit, c.RotationX))
}

// ZoomIn enlarges the model by ZoomStep.
func (c *Camera) ZoomIn() {
	c.Scale *= ZoomStep
}

// ZoomOut shrinks the model by ZoomStep, never below MinScale.
func (c *Camera) ZoomOut() {
	c.Scale = math.Max(MinScale, c.Scale/ZoomStep)
}

// ToggleAutoRotate flips AutoRotate.
func (c *Camera) ToggleAutoRotate() {
	c.AutoRotate = !c.AutoRotate
}

// SetAspectRatio sets the aspect ratio from a viewport size.
// Non-positive sizes are ignored so the ratio stays positive.
func (c *Camera) SetAspectRatio(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = width / height
}

// ViewMatrix returns the right-handed look-at matrix from Position to Target.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Target, c.Up.Normalize())
}

// ProjectionMatrix returns the right-handed perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// ModelMatrix returns Scale · RotY · RotX.
func (c *Camera) ModelMatrix() math3d.Mat4 {
	return math3d.ScaleUniform(c.Scale).
		Mul(math3d.RotateY(c.RotationY)).
		Mul(math3d.RotateX(c.RotationX))
}

// MVPMatrix returns Projection · View · Model.
func (c *Camera) MVPMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix()).Mul(c.ModelMatrix())
}

// ProjectVertex maps an object-space point to screen space.
// The result holds pixel X and Y and the NDC depth in Z.
// ok is false when the point has no image (clip w == 0).
func (c *Camera) ProjectVertex(p math3d.Vec3, screenWidth, screenHeight float64) (math3d.Vec3, bool) {
	return ProjectWithMatrix(c.MVPMatrix(), p, screenWidth, screenHeight)
}

// ProjectWithMatrix is ProjectVertex with a precomputed MVP matrix.
func ProjectWithMatrix(mvp math3d.Mat4, p math3d.Vec3, screenWidth, screenHeight float64) (math3d.Vec3, bool) {
	ndc, ok := mvp.MulVec4(math3d.Point(p)).PerspectiveDivide()
	if !ok {
		return math3d.Vec3{}, false
	}

	return math3d.V3(
		(ndc.X+1)*0.5*screenWidth,
		(1-ndc.Y)*0.5*screenHeight, // Y flipped
		ndc.Z,
	), true
}
