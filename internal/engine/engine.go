package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrNegativeDelta = errors.New("negative tick delta")
var ErrInvalidRules = errors.New("invalid rules")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnimating Phase = "animating"
	PhaseDwelling  Phase = "dwelling"
)

// NoIndex marks "no active item".
const NoIndex = -1

type Rules struct {
	StartDelay    time.Duration `json:"start_delay"`
	DrawDuration  time.Duration `json:"draw_duration"`
	DwellDuration time.Duration `json:"dwell_duration"`
	// RevealThreshold is the connector progress at which sub-items appear.
	RevealThreshold float64 `json:"reveal_threshold"`
}

func DefaultRules() Rules {
	return Rules{
		StartDelay:      500 * time.Millisecond,
		DrawDuration:    600 * time.Millisecond,
		DwellDuration:   1500 * time.Millisecond,
		RevealThreshold: 1.0,
	}
}

func (r Rules) Validate() error {
	switch {
	case r.StartDelay < 0:
		return fmt.Errorf("%w: start delay must not be negative", ErrInvalidRules)
	case r.DrawDuration <= 0:
		return fmt.Errorf("%w: draw duration must be positive", ErrInvalidRules)
	case r.DwellDuration <= 0:
		return fmt.Errorf("%w: dwell duration must be positive", ErrInvalidRules)
	case r.RevealThreshold <= 0 || r.RevealThreshold > 1:
		return fmt.Errorf("%w: reveal threshold must be in (0, 1]", ErrInvalidRules)
	}
	return nil
}

// ItemPeriod is one item's full animate + dwell time.
func (r Rules) ItemPeriod() time.Duration { return r.DrawDuration + r.DwellDuration }

type State struct {
	Phase       Phase         `json:"phase"`
	Visible     bool          `json:"visible"`
	Paused      bool          `json:"paused"`
	ActiveIndex int           `json:"active_index"`
	Progress    float64       `json:"progress"`
	Elapsed     time.Duration `json:"elapsed"` // time spent in the current phase
	Cycles      int           `json:"cycles"`
	ItemCount   int           `json:"item_count"`
	Rules       Rules         `json:"rules"`
}

type CommandType string

const (
	CmdReveal CommandType = "Reveal"
	CmdTick   CommandType = "Tick"
	CmdPause  CommandType = "Pause"
	CmdResume CommandType = "Resume"
)

/*
	CmdReveal -> EvtRevealed (once; the sequencer then waits out StartDelay)
	CmdTick   -> EvtItemActivated -> EvtDrawCompleted -> EvtItemActivated ... EvtCycleCompleted
	CmdPause  -> EvtPaused
	CmdResume -> EvtResumed
*/

type Command struct {
	Type  CommandType
	Delta time.Duration
}

type EventType string

const (
	EvtRevealed       EventType = "Revealed"
	EvtItemActivated  EventType = "ItemActivated"
	EvtDrawCompleted  EventType = "DrawCompleted"
	EvtCycleCompleted EventType = "CycleCompleted"
	EvtPaused         EventType = "Paused"
	EvtResumed        EventType = "Resumed"
)

type Event struct {
	Type  EventType
	Index int
	Count int // cycles completed, set on EvtCycleCompleted only
}

func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdReveal:
		if s.Visible {
			return nil, s, nil
		}
		s.Visible = true
		return []Event{{Type: EvtRevealed, Index: NoIndex}}, s, nil

	case CmdPause:
		if s.Paused {
			return nil, s, nil
		}
		s.Paused = true
		return []Event{{Type: EvtPaused, Index: s.ActiveIndex}}, s, nil

	case CmdResume:
		if !s.Paused {
			return nil, s, nil
		}
		s.Paused = false
		return []Event{{Type: EvtResumed, Index: s.ActiveIndex}}, s, nil

	case CmdTick:
		if cmd.Delta < 0 {
			return nil, s, ErrNegativeDelta
		}
		if !Running(s) || cmd.Delta == 0 {
			return nil, s, nil
		}
		events, next := advance(s, cmd.Delta)
		return events, next, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// Running reports whether ticks move the sequencer. It is the condition under
// which a timer should be armed.
func Running(s State) bool {
	return s.Visible && !s.Paused && s.ItemCount > 0
}

func advance(s State, delta time.Duration) ([]Event, State) {
	var events []Event
	r := s.Rules

	cycle := time.Duration(s.ItemCount) * r.ItemPeriod()

	for delta > 0 {
		// Whole cycles land on the same phase and offset, so skip them outright.
		if s.Phase != PhaseIdle && delta >= cycle {
			folded := int(delta / cycle)
			s.Cycles += folded
			delta %= cycle
			events = append(events, Event{Type: EvtCycleCompleted, Index: s.ActiveIndex, Count: folded})
			continue
		}
		switch s.Phase {
		case PhaseIdle:
			need := r.StartDelay - s.Elapsed
			if delta < need {
				s.Elapsed += delta
				return events, s
			}
			delta -= need
			s = activate(s, 0)
			events = append(events, Event{Type: EvtItemActivated, Index: 0})

		case PhaseAnimating:
			need := r.DrawDuration - s.Elapsed
			if delta < need {
				s.Elapsed += delta
				s.Progress = float64(s.Elapsed) / float64(r.DrawDuration)
				return events, s
			}
			delta -= need
			s.Phase = PhaseDwelling
			s.Progress = 1
			s.Elapsed = 0
			events = append(events, Event{Type: EvtDrawCompleted, Index: s.ActiveIndex})

		case PhaseDwelling:
			need := r.DwellDuration - s.Elapsed
			if delta < need {
				s.Elapsed += delta
				return events, s
			}
			delta -= need
			next := (s.ActiveIndex + 1) % s.ItemCount
			if next == 0 {
				s.Cycles++
				events = append(events, Event{Type: EvtCycleCompleted, Index: s.ActiveIndex, Count: 1})
			}
			s = activate(s, next)
			events = append(events, Event{Type: EvtItemActivated, Index: next})
		}
	}
	return events, s
}

func activate(s State, index int) State {
	s.Phase = PhaseAnimating
	s.ActiveIndex = index
	s.Progress = 0
	s.Elapsed = 0
	return s
}

// Reduce replays events over a fresh state; it rebuilds the index, phase and
// cycle count but not the in-phase elapsed time.
func Reduce(itemCount int, rules Rules, events []Event) State {
	s := NewState(itemCount, rules)
	for _, event := range events {
		switch event.Type {
		case EvtRevealed:
			s.Visible = true
		case EvtItemActivated:
			s = activate(s, event.Index)
		case EvtDrawCompleted:
			s.Phase = PhaseDwelling
			s.Progress = 1
			s.Elapsed = 0
		case EvtCycleCompleted:
			s.Cycles += event.Count
		case EvtPaused:
			s.Paused = true
		case EvtResumed:
			s.Paused = false
		}
	}
	return s
}
