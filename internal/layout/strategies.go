package layout

import "math"

// linear places items as a row of pills under a title box, each fed by a
// connector that drops from the box and bends toward its pill.
type linear struct{}

const (
	linearHeight   = 580.0
	linearTitleY   = 96.0
	linearPillY    = 330.0
	linearPillW    = 180.0
	linearPillH    = 54.0
	linearPillGap  = 15.0
	linearSubRowY  = 460.0
	linearCurveOut = 84.0 // how far the connector leaves the title box vertically
)

func (linear) canvasHeight(float64, int) float64 { return linearHeight }

func (linear) origin(width float64, _ int) Point { return Point{width / 2, linearTitleY} }

func (linear) nodes(width float64, n int, _ float64) ([]Point, float64, float64) {
	w := math.Min(linearPillW, (width-2*Margin-float64(n-1)*linearPillGap)/float64(n))
	total := float64(n)*w + float64(n-1)*linearPillGap
	start := (width - total) / 2

	centers := make([]Point, n)
	for i := range centers {
		centers[i] = Point{start + float64(i)*(w+linearPillGap) + w/2, linearPillY + linearPillH/2}
	}
	return centers, w, linearPillH
}

func (linear) connector(origin, node Point, _, h float64) Curve {
	top := node.Y - h/2
	return Curve{
		From: origin,
		C1:   Point{origin.X, origin.Y + linearCurveOut},
		C2:   Point{node.X, top - 80},
		To:   Point{node.X, top},
	}
}

func (linear) subRowY(float64, int, Point) float64 { return linearSubRowY }

// radial places items evenly on a circle around a central hub, first item at
// twelve o'clock, turned by the orbit rotation.
type radial struct{}

const (
	radialRadius       = 220.0
	radialRadiusNarrow = 150.0
	radialNarrowWidth  = 768.0
	radialNodeMax      = 110.0
	radialHubRadius    = 64.0
	radialSubOffset    = 24.0
	radialBend         = 0.12
)

func (radial) radius(width float64) float64 {
	r := radialRadius
	if width < radialNarrowWidth {
		r = radialRadiusNarrow
	}
	// Keep the widest node inside the canvas margins.
	return math.Min(r, width/2-Margin-radialNodeMax/2)
}

// nodeSize is the side of the square node box. Adjacent centers sit one chord
// apart; a square of side 0.7*chord can never overlap its neighbour because
// max(|dx|, |dy|) >= chord/sqrt(2) > 0.7*chord.
func (g radial) nodeSize(width float64, n int) float64 {
	if n < 2 {
		return radialNodeMax
	}
	chord := 2 * g.radius(width) * math.Sin(math.Pi/float64(n))
	return math.Min(radialNodeMax, 0.7*chord)
}

func (g radial) center(width float64, n int) Point {
	return Point{width / 2, Margin + radialNodeMax/2 + g.radius(width)}
}

func (g radial) canvasHeight(width float64, n int) float64 {
	c := g.center(width, n)
	return c.Y + g.radius(width) + radialNodeMax/2 + radialSubOffset + subBoxHeight + Margin
}

func (g radial) origin(width float64, n int) Point { return g.center(width, n) }

func (g radial) nodes(width float64, n int, rotation float64) ([]Point, float64, float64) {
	c := g.center(width, n)
	r := g.radius(width)
	s := g.nodeSize(width, n)

	centers := make([]Point, n)
	for i := range centers {
		deg := float64(i)*360/float64(n) - 90 + rotation
		rad := deg * math.Pi / 180
		centers[i] = Point{c.X + r*math.Cos(rad), c.Y + r*math.Sin(rad)}
	}
	return centers, s, s
}

func (radial) connector(origin, node Point, w, _ float64) Curve {
	v := node.sub(origin)
	l := v.length()
	if l == 0 {
		return Curve{From: origin, C1: origin, C2: origin, To: origin}
	}
	unit := v.scale(1 / l)
	perp := Point{-unit.Y, unit.X}.scale(radialBend * l)
	from := origin.add(unit.scale(math.Min(radialHubRadius, l/2)))
	to := node.sub(unit.scale(math.Min(w/2, l/2)))
	return Curve{
		From: from,
		C1:   lerp(from, to, 1.0/3).add(perp),
		C2:   lerp(from, to, 2.0/3).add(perp),
		To:   to,
	}
}

func (g radial) subRowY(width float64, n int, _ Point) float64 {
	c := g.center(width, n)
	return c.Y + g.radius(width) + radialNodeMax/2 + radialSubOffset
}
