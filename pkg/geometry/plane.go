package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is an infinite plane given by a unit normal and its signed
// distance from the origin. Points with SignedDistance >= 0 lie on the
// positive side.
type Plane struct {
	Normal   Vector3
	Distance float64
}

// NewPlane creates a plane from a normal and distance. The normal is
// normalized and the distance scaled accordingly.
func NewPlane(normal Vector3, distance float64) Plane {
	length := normal.Length()
	if length == 0 {
		return Plane{}
	}
	return Plane{Normal: normal.Mul(1 / length), Distance: distance / length}
}

// PlaneFromPointNormal creates the plane through point with the given normal
func PlaneFromPointNormal(point, normal Vector3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: n.Dot(point)}
}

// IsValid reports whether the plane has a usable normal
func (p Plane) IsValid() bool {
	return p.Normal.LengthSquared() > 0
}

// SignedDistance returns dot(normal, point) - distance
func (p Plane) SignedDistance(point Vector3) float64 {
	return p.Normal.Dot(point) - p.Distance
}

// Side reports whether point lies on the positive side
func (p Plane) Side(point Vector3) bool {
	return p.SignedDistance(point) >= 0
}

// Point returns the point on the plane closest to the origin
func (p Plane) Point() Vector3 {
	return p.Normal.Mul(p.Distance)
}

// Raycast intersects the ray origin + t*direction with the plane.
// It returns the ray parameter and false when the ray is parallel or
// points away from the plane.
func (p Plane) Raycast(origin, direction Vector3) (float64, bool) {
	denom := p.Normal.Dot(direction)
	if math.Abs(denom) < 1e-15 {
		return 0, false
	}
	t := -p.SignedDistance(origin) / denom
	return t, t >= 0
}

// IntersectsBox is the separating-axis test between the plane and an
// axis-aligned box. It does not allocate.
func (p Plane) IntersectsBox(b BoundingBox) bool {
	if b.IsEmpty() {
		return false
	}
	e := b.Extents()
	r := e.X*math.Abs(p.Normal.X) + e.Y*math.Abs(p.Normal.Y) + e.Z*math.Abs(p.Normal.Z)
	s := p.SignedDistance(b.Center())
	return math.Abs(s) <= r
}

// Transform maps the plane by m. Points transform by m and the normal by
// the inverse transpose of its linear part.
func (p Plane) Transform(m mgl64.Mat4) Plane {
	point := p.Point().TransformPoint(m)
	inv := m.Mat3().Inv().Transpose()
	normal := FromVec3(inv.Mul3x1(p.Normal.Vec3()))
	return PlaneFromPointNormal(point, normal)
}

// Basis returns two unit vectors u, v spanning the plane such that
// u x v equals the plane normal.
func (p Plane) Basis() (Vector3, Vector3) {
	n := p.Normal
	helper := NewVector3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		helper = NewVector3(0, 1, 0)
	}
	u := helper.Cross(n).Normalize()
	v := n.Cross(u)
	return u, v
}

// Project expresses point in the plane's 2D basis
func (p Plane) Project(point Vector3, u, v Vector3) Vector2 {
	return Vector2{X: point.Dot(u), Y: point.Dot(v)}
}
