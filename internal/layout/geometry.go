package layout

import "math"

const curveSegments = 32

// Point is a position in container pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bezier is a cubic curve from P0 to P3
type Bezier struct {
	P0, P1, P2, P3 Point
}

// At evaluates the curve at t in [0, 1]
func (b Bezier) At(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	c1 := 3 * mt * mt * t
	c2 := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*b.P0.X + c1*b.P1.X + c2*b.P2.X + d*b.P3.X,
		Y: a*b.P0.Y + c1*b.P1.Y + c2*b.P2.Y + d*b.P3.Y,
	}
}

// Distance approximates the shortest distance from p to the curve by
// sampling it into straight segments.
func (b Bezier) Distance(p Point) float64 {
	best := math.Inf(1)
	prev := b.P0
	for i := 1; i <= curveSegments; i++ {
		next := b.At(float64(i) / curveSegments)
		if d := segmentDistance(p, prev, next); d < best {
			best = d
		}
		prev = next
	}
	return best
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// edgeCurve leaves the side of the dependency facing the dependent and
// enters the opposite side of the dependent, bending horizontally.
func edgeCurve(from, to Node, opts Options) Bezier {
	fromY := from.Y + opts.NodeHeight/2
	toY := to.Y + opts.NodeHeight/2

	var startX, endX float64
	if to.X < from.X {
		startX, endX = from.X, to.X+opts.NodeWidth
	} else {
		startX, endX = from.X+opts.NodeWidth, to.X
	}

	midX := startX + (endX-startX)/2
	return Bezier{
		P0: Point{X: startX, Y: fromY},
		P1: Point{X: midX, Y: fromY},
		P2: Point{X: midX, Y: toY},
		P3: Point{X: endX, Y: toY},
	}
}
