package debug

import (
	"github.com/spaghettifunk/gizmo/engine/math"
)

// ShapeKind identifies one canonical shape bucket. The declaration order is
// the canonical bucket order used for instance-offset bookkeeping; do not
// reorder.
type ShapeKind uint8

const (
	KindQuad ShapeKind = iota
	KindCircle
	KindSphere
	KindCube
	KindCapsule
	KindCylinder
	KindCone
	// KindLine is batched into a flat line-vertex list rather than as
	// instanced indexed geometry.
	KindLine
)

// InstancedKindCount is the number of shape kinds drawn as instanced meshes.
const InstancedKindCount = int(KindLine)

func (k ShapeKind) String() string {
	switch k {
	case KindQuad:
		return "quad"
	case KindCircle:
		return "circle"
	case KindSphere:
		return "sphere"
	case KindCube:
		return "cube"
	case KindCapsule:
		return "capsule"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindLine:
		return "line"
	}
	return "unknown"
}

// Shape is one variant of the draw-command payload. Exactly one concrete
// shape type is meaningful per command.
type Shape interface {
	Kind() ShapeKind
}

type Quad struct {
	Position math.Vec3
	Rotation math.Quaternion
	Size     math.Vec2
}

type Circle struct {
	Position math.Vec3
	Rotation math.Quaternion
	Radius   float32
}

type Sphere struct {
	Position math.Vec3
	Radius   float32
}

// Cube spans the axis-aligned box between Start and End in local space,
// rotated around its center by Rotation.
type Cube struct {
	Start    math.Vec3
	End      math.Vec3
	Rotation math.Quaternion
}

type Capsule struct {
	Position math.Vec3
	Rotation math.Quaternion
	Radius   float32
	Height   float32
}

type Cylinder struct {
	Position math.Vec3
	Rotation math.Quaternion
	Radius   float32
	Height   float32
}

type Cone struct {
	Position math.Vec3
	Rotation math.Quaternion
	Radius   float32
	Height   float32
}

type Line struct {
	Start math.Vec3
	End   math.Vec3
}

func (Quad) Kind() ShapeKind     { return KindQuad }
func (Circle) Kind() ShapeKind   { return KindCircle }
func (Sphere) Kind() ShapeKind   { return KindSphere }
func (Cube) Kind() ShapeKind     { return KindCube }
func (Capsule) Kind() ShapeKind  { return KindCapsule }
func (Cylinder) Kind() ShapeKind { return KindCylinder }
func (Cone) Kind() ShapeKind     { return KindCone }
func (Line) Kind() ShapeKind     { return KindLine }

// Command is a single queued draw request. Lifetime counts down in seconds;
// zero means the command renders for exactly one frame.
type Command struct {
	Shape     Shape
	Color     math.Vec4
	Lifetime  float32
	DepthTest bool
}
