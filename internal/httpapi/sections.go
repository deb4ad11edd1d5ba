package httpapi

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/portfolio-backend/internal/engine"
	"github.com/DoyleJ11/portfolio-backend/internal/layout"
	"github.com/DoyleJ11/portfolio-backend/internal/section"
	"github.com/DoyleJ11/portfolio-backend/internal/types"
	"github.com/DoyleJ11/portfolio-backend/internal/visibility"
)

func (a *API) MountSection(w http.ResponseWriter, r *http.Request) {
	var req types.MountRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	s, err := a.d.Hub.MountSection(r.Context(), req.Catalog, req.Layout, req.Width)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.MountResponse{ID: s.ID()})
}

func (a *API) section(ctx context.Context, r *http.Request) (*section.Section, error) {
	return a.d.Hub.Section(ctx, chi.URLParam(r, "id"))
}

func (a *API) GetSection(w http.ResponseWriter, r *http.Request) {
	s, err := a.section(r.Context(), r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	v, err := s.State(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) UnmountSection(w http.ResponseWriter, r *http.Request) {
	if err := a.d.Hub.UnmountSection(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) Observe(w http.ResponseWriter, r *http.Request) {
	var obs visibility.Observation
	if err := decode(w, r, &obs); err != nil {
		a.fail(w, r, err)
		return
	}
	s, err := a.section(r.Context(), r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	reply := make(chan bool, 1)
	if err := s.Send(r.Context(), section.Observe{Obs: obs, Reply: reply}); err != nil {
		a.fail(w, r, err)
		return
	}
	select {
	case visible := <-reply:
		writeJSON(w, http.StatusOK, types.VisibilityResponse{Visible: visible})
	case <-s.Done():
		a.fail(w, r, section.ErrClosed)
	case <-r.Context().Done():
	}
}

func (a *API) HoverEnter(w http.ResponseWriter, r *http.Request) {
	var req types.HoverRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	a.command(w, r, section.HoverEnter{ItemID: req.ItemID})
}

func (a *API) HoverLeave(w http.ResponseWriter, r *http.Request) {
	a.command(w, r, section.HoverLeave{})
}

func (a *API) Pause(w http.ResponseWriter, r *http.Request) {
	a.command(w, r, section.Pause{})
}

func (a *API) Resume(w http.ResponseWriter, r *http.Request) {
	a.command(w, r, section.Resume{})
}

// command sends msg and replies with the view after it was handled.
func (a *API) command(w http.ResponseWriter, r *http.Request, msg section.Msg) {
	s, err := a.section(r.Context(), r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := s.Send(r.Context(), msg); err != nil {
		a.fail(w, r, err)
		return
	}
	// The inbox is ordered, so this view already reflects msg.
	v, err := s.State(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Layout computes a single frame without mounting anything.
func (a *API) Layout(w http.ResponseWriter, r *http.Request) {
	c, err := a.d.Catalogs.Get(chi.URLParam(r, "catalog"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	name := q.Get("layout")
	if name == "" {
		name = c.Layout
	}
	strategy, err := layout.Lookup(name)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	width := queryFloat(q.Get("width"), 1300)
	progress := queryFloat(q.Get("progress"), 1)
	if math.IsNaN(progress) {
		a.fail(w, r, fmt.Errorf("%w: progress %q", errBadQuery, q.Get("progress")))
		return
	}
	progress = math.Max(0, math.Min(1, progress))
	index := engine.NoIndex
	if v, err := strconv.Atoi(q.Get("index")); err == nil {
		index = v
	}
	d := engine.Display{
		Index:        index,
		Progress:     progress,
		ShowSubItems: progress >= a.d.Rules.RevealThreshold,
	}
	if hover := q.Get("hover"); hover != "" {
		d = engine.Resolve(engine.State{Phase: engine.PhaseIdle, ActiveIndex: engine.NoIndex}, engine.Hover{ItemID: hover}, c.IDs())
	}

	f, err := layout.Compute(strategy, c.Items, d, layout.Options{
		Width:    width,
		Rotation: queryFloat(q.Get("rotation"), 0),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func queryFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
