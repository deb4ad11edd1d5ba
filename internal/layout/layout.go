// Package layout maps a section's items and the resolved display onto 2D
// geometry. Everything here is a pure function of its inputs: the same
// (display, sub-item count, width, rotation) always yields the same frame.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/engine"
)

var ErrInvalidWidth = errors.New("invalid viewport width")
var ErrTooManyItems = errors.New("too many items for layout")
var ErrUnknownStrategy = errors.New("unknown layout strategy")

const (
	// MinWidth is the narrowest canvas laid out; smaller viewports are scaled by the client.
	MinWidth = 320.0
	Margin   = 30.0

	subBoxWidth  = 120.0
	subBoxHeight = 32.0
	subGap       = 12.0

	// activeFillAlpha matches the translucent "color + 15" fill of active pills.
	activeFillAlpha = float64(0x15) / 255
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) scale(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) length() float64 { return math.Hypot(p.X, p.Y) }
func lerp(a, b Point, t float64) Point { return a.add(b.sub(a).scale(t)) }
func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
func (p Point) finite() bool { return finite(p.X) && finite(p.Y) }

// Curve is a cubic bezier drawn up to Progress (0..1) of its length.
type Curve struct {
	From     Point   `json:"from"`
	C1       Point   `json:"c1"`
	C2       Point   `json:"c2"`
	To       Point   `json:"to"`
	Progress float64 `json:"progress"`
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	a := c.From.scale(u * u * u)
	b := c.C1.scale(3 * u * u * t)
	d := c.C2.scale(3 * u * t * t)
	e := c.To.scale(t * t * t)
	return a.add(b).add(d).add(e)
}

// Path renders the SVG path data for the full curve.
func (c Curve) Path() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, c.From)
	b.WriteString(" C ")
	writePoint(&b, c.C1)
	b.WriteString(", ")
	writePoint(&b, c.C2)
	b.WriteString(", ")
	writePoint(&b, c.To)
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(' ')
	b.WriteString(formatCoord(p.Y))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Fill   string  `json:"fill,omitempty"`
	Center Point   `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Active bool    `json:"active"`
}

type SubNode struct {
	Label     string  `json:"label"`
	Center    Point   `json:"center"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Connector Curve   `json:"connector"`
	Path      string  `json:"path"`
}

type Frame struct {
	Strategy   Strategy       `json:"strategy"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Origin     Point          `json:"origin"`
	Nodes      []Node         `json:"nodes"`
	Connectors []Curve        `json:"connectors"`
	Paths      []string       `json:"paths"`
	Active     *Curve         `json:"active,omitempty"`
	SubNodes   []SubNode      `json:"sub_nodes,omitempty"`
	Display    engine.Display `json:"display"`
}

type Options struct {
	Width float64
	// Rotation turns radial layouts, in degrees. Linear layouts ignore it.
	Rotation float64
}

type Strategy string

const (
	StrategyLinear Strategy = "linear"
	StrategyRadial Strategy = "radial"
)

// geometry is the part that differs between strategies.
type geometry interface {
	canvasHeight(width float64, n int) float64
	origin(width float64, n int) Point
	nodes(width float64, n int, rotation float64) (centers []Point, w, h float64)
	connector(origin, node Point, w, h float64) Curve
	subRowY(width float64, n int, anchor Point) float64
}

var strategies = map[Strategy]geometry{
	StrategyLinear: linear{},
	StrategyRadial: radial{},
}

// Lookup resolves a strategy name, defaulting to linear when empty.
func Lookup(name string) (Strategy, error) {
	if name == "" {
		return StrategyLinear, nil
	}
	s := Strategy(strings.ToLower(name))
	if _, ok := strategies[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

func Compute(strategy Strategy, items []catalog.Item, d engine.Display, opts Options) (Frame, error) {
	g, ok := strategies[strategy]
	if !ok {
		return Frame{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if opts.Width <= 0 || !finite(opts.Width) {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidWidth, opts.Width)
	}
	if len(items) > catalog.MaxItems {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(items), catalog.MaxItems)
	}
	for _, it := range items {
		if len(it.SubItems) > catalog.MaxSubItems {
			return Frame{}, fmt.Errorf("%w: %s has %d sub-items > %d", ErrTooManyItems, it.ID, len(it.SubItems), catalog.MaxSubItems)
		}
	}
	if !finite(opts.Rotation) {
		opts.Rotation = 0
	}

	n := len(items)
	width := math.Max(opts.Width, MinWidth)
	f := Frame{
		Strategy: strategy,
		Width:    width,
		Height:   g.canvasHeight(width, n),
		Origin:   g.origin(width, n),
		Display:  d,
	}
	if d.Index < 0 || d.Index >= n {
		f.Display = engine.Display{Index: engine.NoIndex}
	}
	if n == 0 {
		return f, nil
	}

	centers, w, h := g.nodes(width, n, opts.Rotation)
	f.Nodes = make([]Node, n)
	f.Connectors = make([]Curve, n)
	f.Paths = make([]string, n)
	for i, it := range items {
		active := i == f.Display.Index
		node := Node{ID: it.ID, Label: it.Label, Color: it.Color, Center: centers[i], Width: w, Height: h, Active: active}
		if active && f.Display.Progress >= 1 {
			node.Fill = it.Tint(activeFillAlpha)
		}
		f.Nodes[i] = node

		c := g.connector(f.Origin, centers[i], w, h)
		c.Progress = 1
		f.Connectors[i] = c
		f.Paths[i] = c.Path()
	}

	if f.Display.Index == engine.NoIndex {
		return f, nil
	}
	active := f.Connectors[f.Display.Index]
	active.Progress = clamp01(f.Display.Progress)
	f.Active = &active

	if f.Display.ShowSubItems {
		center := centers[f.Display.Index]
		anchor := Point{center.X, center.Y + h/2}
		f.SubNodes = subRow(items[f.Display.Index].SubItems, anchor, g.subRowY(width, n, anchor), width)
	}
	return f, nil
}

// subRow lays sub-items out in one row centered under anchor, shrinking boxes
// to fit and clamping the row inside the canvas margins.
func subRow(labels []string, anchor Point, rowY, width float64) []SubNode {
	k := len(labels)
	if k == 0 {
		return nil
	}
	boxW := subBoxWidth
	avail := width - 2*Margin
	if total := float64(k)*boxW + float64(k-1)*subGap; total > avail {
		boxW = math.Max(1, (avail-float64(k-1)*subGap)/float64(k))
	}
	total := float64(k)*boxW + float64(k-1)*subGap
	start := math.Max(Margin, math.Min(anchor.X-total/2, width-Margin-total))

	out := make([]SubNode, k)
	for i, label := range labels {
		x := start + float64(i)*(boxW+subGap) + boxW/2
		c := Curve{
			From:     anchor,
			C1:       Point{anchor.X, anchor.Y + 36},
			C2:       Point{x, rowY - 40},
			To:       Point{x, rowY},
			Progress: 1,
		}
		out[i] = SubNode{
			Label:     label,
			Center:    Point{x, rowY + subBoxHeight/2},
			Width:     boxW,
			Height:    subBoxHeight,
			Connector: c,
			Path:      c.Path(),
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
