package engine

import (
	"math"
	"slices"
	"time"
)

// Hover is the pointer overlay. It lives beside State and is never fed to
// Apply, so entering or leaving a hover cannot disturb the sequencer.
type Hover struct {
	ItemID string `json:"item_id,omitempty"`
}

func (h Hover) Active() bool { return h.ItemID != "" }

// Display is what the render layer should show right now.
type Display struct {
	Index        int     `json:"index"`
	Progress     float64 `json:"progress"`
	Hovered      bool    `json:"hovered"`
	ShowSubItems bool    `json:"show_sub_items"`
}

// Resolve merges sequencer state and hover at read time.
// A hovered item wins and is shown fully drawn. An unknown hover id is ignored.
func Resolve(s State, h Hover, ids []string) Display {
	if h.Active() {
		if i := slices.Index(ids, h.ItemID); i >= 0 {
			return Display{Index: i, Progress: 1, Hovered: true, ShowSubItems: true}
		}
	}
	if s.Phase == PhaseIdle || s.ActiveIndex < 0 || s.ActiveIndex >= len(ids) {
		return Display{Index: NoIndex}
	}
	return Display{
		Index:        s.ActiveIndex,
		Progress:     s.Progress,
		ShowSubItems: s.Progress >= s.Rules.RevealThreshold,
	}
}

// Orbit is the slow rotation of radial layouts.
type Orbit struct {
	Period time.Duration `json:"period"`
	Angle  float64       `json:"angle"` // degrees in [0, 360)
}

func (o Orbit) Advance(d time.Duration) Orbit {
	if o.Period <= 0 || d <= 0 {
		return o
	}
	o.Angle = math.Mod(o.Angle+360*float64(d)/float64(o.Period), 360)
	return o
}
