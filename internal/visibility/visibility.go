// Package visibility decides when a section has scrolled into view.
package visibility

import "sync/atomic"

// DefaultMargin shrinks the viewport by 100px on each edge before testing.
const DefaultMargin = -100

// Observation is a section's bounding box in viewport coordinates.
type Observation struct {
	Top            float64 `json:"top"`
	Bottom         float64 `json:"bottom"`
	ViewportHeight float64 `json:"viewport_height"`
}

// Intersects reports whether the box overlaps the viewport grown (or shrunk,
// for a negative margin) by margin on both edges.
func (o Observation) Intersects(margin float64) bool {
	if o.ViewportHeight <= 0 || o.Bottom <= o.Top {
		return false
	}
	return o.Top < o.ViewportHeight+margin && o.Bottom > -margin
}

// Trigger is a one-shot "has entered the viewport" flag. Once fired it
// ignores every later observation.
type Trigger struct {
	margin float64
	fired  atomic.Bool
}

func New(margin float64) *Trigger {
	return &Trigger{margin: margin}
}

// Observe returns true only for the observation that fires the trigger.
func (t *Trigger) Observe(o Observation) bool {
	if t.fired.Load() || !o.Intersects(t.margin) {
		return false
	}
	return t.fired.CompareAndSwap(false, true)
}

func (t *Trigger) Visible() bool { return t.fired.Load() }
