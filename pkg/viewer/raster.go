package viewer

import (
	"image"
	"image/color"
	"math"
)

// screenPoint is a projected vertex: pixel position plus view depth
type screenPoint struct {
	x, y, z float64
}

// fillTriangle scan-converts a triangle, keeping pixels closer than the
// depth already stored in zbuffer
func fillTriangle(img *image.RGBA, zbuffer []float64, a, b, c screenPoint, col color.RGBA) {
	if a.y > b.y {
		a, b = b, a
	}
	if b.y > c.y {
		b, c = c, b
	}
	if a.y > b.y {
		a, b = b, a
	}

	if a.y == c.y {
		return
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	at := func(p, q screenPoint, fy float64) screenPoint {
		if p.y == q.y {
			return p
		}
		t := (fy - p.y) / (q.y - p.y)
		return screenPoint{x: p.x + t*(q.x-p.x), z: p.z + t*(q.z-p.z)}
	}

	for y := int(math.Max(0, math.Ceil(a.y))); y <= int(math.Min(float64(bounds.Max.Y-1), c.y)); y++ {
		fy := float64(y)

		start := at(a, c, fy)
		end := at(b, c, fy)
		if fy < b.y {
			end = at(a, b, fy)
		}
		if start.x > end.x {
			start, end = end, start
		}

		for x := int(math.Max(0, math.Ceil(start.x))); x <= int(math.Min(float64(bounds.Max.X-1), end.x)); x++ {
			t := 0.0
			if end.x != start.x {
				t = (float64(x) - start.x) / (end.x - start.x)
			}
			z := start.z + t*(end.z-start.z)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a line using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if (image.Point{X: x1, Y: y1}).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			return
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
