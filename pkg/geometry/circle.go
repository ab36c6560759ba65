package geometry

import (
	"errors"
	"math"
)

// ErrCollinear is returned when the sample points do not span a circle
var ErrCollinear = errors.New("points are collinear")

// CircleFit is a circle lying in a plane
type CircleFit struct {
	Center Vector3
	Radius float64
	Normal Vector3
	// StdDev of the point distances from the fitted radius
	StdDev float64
}

// FitCircle fits a circle through points lying in plane. The circle passes
// through the first, middle and last point; StdDev measures how well the
// remaining points follow it.
//
// With a, b, c projected into the plane basis:
//
//	D  = 2(ax(by-cy) + bx(cy-ay) + cx(ay-by))
//	ux = (|a|²(by-cy) + |b|²(cy-ay) + |c|²(ay-by)) / D
//	uy = (|a|²(cx-bx) + |b|²(ax-cx) + |c|²(bx-ax)) / D
func FitCircle(points []Vector3, plane Plane) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 points to fit a circle")
	}

	u, v := plane.Basis()
	flat := make([]Vector2, len(points))
	for i, p := range points {
		flat[i] = plane.Project(p, u, v)
	}

	a, b, c := flat[0], flat[len(flat)/2], flat[len(flat)-1]
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-10 {
		return nil, ErrCollinear
	}

	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	center := NewVector2(
		(a2*(b.Y-c.Y)+b2*(c.Y-a.Y)+c2*(a.Y-b.Y))/d,
		(a2*(c.X-b.X)+b2*(a.X-c.X)+c2*(b.X-a.X))/d,
	)
	radius := a.Sub(center).Length()

	var sum float64
	for _, p := range flat {
		e := p.Sub(center).Length() - radius
		sum += e * e
	}

	return &CircleFit{
		Center: u.Mul(center.X).Add(v.Mul(center.Y)).Add(plane.Point()),
		Radius: radius,
		Normal: plane.Normal,
		StdDev: math.Sqrt(sum / float64(len(flat))),
	}, nil
}
