package types

import (
	"github.com/DoyleJ11/portfolio-backend/internal/section"
	"github.com/DoyleJ11/portfolio-backend/internal/visibility"
)

// Client -> server message types.
const (
	MsgObserve    = "Observe"
	MsgHoverEnter = "HoverEnter"
	MsgHoverLeave = "HoverLeave"
	MsgPause      = "Pause"
	MsgResume     = "Resume"
	MsgResize     = "Resize"
)

// Server -> client message types.
const (
	MsgFrame = "Frame"
	MsgError = "Error"
)

type ClientMessage struct {
	Type        string                  `json:"type"`
	ItemID      string                  `json:"item_id,omitempty"`
	Observation *visibility.Observation `json:"observation,omitempty"`
	Width       float64                 `json:"width,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "Frame" | "Error"
	Version int           `json:"version,omitempty"`
	View    *section.View `json:"view,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// MountRequest is the body of POST /sections.
type MountRequest struct {
	Catalog string  `json:"catalog"`
	Layout  string  `json:"layout,omitempty"`
	Width   float64 `json:"width,omitempty"`
}

type MountResponse struct {
	ID string `json:"id"`
}

type HoverRequest struct {
	ItemID string `json:"item_id"`
}

type VisibilityResponse struct {
	Visible bool `json:"visible"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ToSectionMsg converts a client message into the section inbox message it
// stands for. The second result is false for unknown or incomplete messages.
func ToSectionMsg(m ClientMessage) (section.Msg, bool) {
	switch m.Type {
	case MsgObserve:
		if m.Observation == nil {
			return nil, false
		}
		return section.Observe{Obs: *m.Observation}, true
	case MsgHoverEnter:
		if m.ItemID == "" {
			return nil, false
		}
		return section.HoverEnter{ItemID: m.ItemID}, true
	case MsgHoverLeave:
		return section.HoverLeave{}, true
	case MsgPause:
		return section.Pause{}, true
	case MsgResume:
		return section.Resume{}, true
	case MsgResize:
		if m.Width <= 0 {
			return nil, false
		}
		return section.Resize{Width: m.Width}, true
	default:
		return nil, false
	}
}
