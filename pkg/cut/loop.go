package cut

import (
	"math"

	"github.com/philipparndt/gocut/pkg/geometry"
)

// Loop is one cross-section polygon, as corner points in positive-cap
// order. Closed is false when the segments ran out before returning to the
// start.
type Loop struct {
	Points []geometry.Vector3
	Closed bool
}

// buildLoops stitches segments into loops. The slice is reordered in
// place: each loop occupies a contiguous run of segments, found by swapping
// the continuation of the current segment into the next slot. Stitching
// repeats over the remaining segments until all are consumed.
func buildLoops(segments []Segment, tolerance, collinear float64) []Loop {
	var loops []Loop

	start := 0
	for start < len(segments) {
		first := segments[start].A
		i := start
		closed := false

		for {
			if segments[i].B.ApproxEqual(first, tolerance) {
				closed = true
				break
			}
			found := false
			for j := i + 1; j < len(segments); j++ {
				if segments[j].A.ApproxEqual(segments[i].B, tolerance) {
					segments[i+1], segments[j] = segments[j], segments[i+1]
					found = true
					break
				}
			}
			if !found {
				break
			}
			i++
		}

		points := make([]geometry.Vector3, 0, i-start+2)
		for k := start; k <= i; k++ {
			points = append(points, segments[k].A)
		}
		if !closed {
			points = append(points, segments[i].B)
		}

		corners := simplifyLoop(points, closed, tolerance, collinear)
		if len(corners) >= 3 {
			loops = append(loops, Loop{Points: corners, Closed: closed})
		}
		start = i + 1
	}

	return loops
}

// simplifyLoop drops repeated points and points where the incoming and
// outgoing edges are parallel, leaving only polygon corners
func simplifyLoop(points []geometry.Vector3, closed bool, tolerance, collinear float64) []geometry.Vector3 {
	unique := make([]geometry.Vector3, 0, len(points))
	for _, p := range points {
		if len(unique) > 0 && unique[len(unique)-1].ApproxEqual(p, tolerance) {
			continue
		}
		unique = append(unique, p)
	}
	if closed && len(unique) > 1 && unique[0].ApproxEqual(unique[len(unique)-1], tolerance) {
		unique = unique[:len(unique)-1]
	}

	n := len(unique)
	if n < 3 {
		return unique
	}

	corners := make([]geometry.Vector3, 0, n)
	for k := 0; k < n; k++ {
		if !closed && (k == 0 || k == n-1) {
			corners = append(corners, unique[k])
			continue
		}
		prev := unique[(k-1+n)%n]
		next := unique[(k+1)%n]
		if isStraight(prev, unique[k], next, collinear) {
			continue
		}
		corners = append(corners, unique[k])
	}
	return corners
}

// isStraight reports whether p continues the direction prev→p within the
// angular tolerance
func isStraight(prev, p, next geometry.Vector3, tolerance float64) bool {
	in := p.Sub(prev).Normalize()
	out := next.Sub(p).Normalize()
	angle := math.Atan2(in.Cross(out).Length(), in.Dot(out))
	return angle < tolerance
}
