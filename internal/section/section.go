package section

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/clock"
	"github.com/DoyleJ11/portfolio-backend/internal/engine"
	"github.com/DoyleJ11/portfolio-backend/internal/layout"
	"github.com/DoyleJ11/portfolio-backend/internal/visibility"
)

var ErrClosed = errors.New("section closed")

type Msg interface{ isSectionMsg() }

// Observe feeds a viewport observation to the visibility trigger.
type Observe struct {
	Obs   visibility.Observation
	Reply chan bool // optional, buffered; receives whether the section is now visible
}

func (Observe) isSectionMsg() {}

// Reveal marks the section visible without an observation.
type Reveal struct{}

func (Reveal) isSectionMsg() {}

type HoverEnter struct{ ItemID string }

func (HoverEnter) isSectionMsg() {}

type HoverLeave struct{}

func (HoverLeave) isSectionMsg() {}

type Pause struct{}

func (Pause) isSectionMsg() {}

type Resume struct{}

func (Resume) isSectionMsg() {}

type Resize struct{ Width float64 }

func (Resize) isSectionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSectionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSectionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSectionMsg() {}

type Shutdown struct{}

func (Shutdown) isSectionMsg() {}

type Snapshot struct {
	Version int  `json:"version"`
	View    View `json:"view"`
}

type View struct {
	ID         string       `json:"id"`
	Catalog    string       `json:"catalog"`
	Version    int          `json:"version"`
	NumClients int          `json:"num_clients"`
	State      engine.State `json:"state"`
	Hover      engine.Hover `json:"hover"`
	Orbit      engine.Orbit `json:"orbit"`
	Frame      layout.Frame `json:"frame"`
}

type Config struct {
	ID       string
	Catalog  catalog.Catalog
	Strategy layout.Strategy
	Width    float64
	Rules    engine.Rules
	// TickInterval is the animation frame period while the timer is armed.
	TickInterval     time.Duration
	OrbitPeriod      time.Duration
	VisibilityMargin float64
	// IdleTimeout shuts the section down once it has had no clients and no
	// messages for this long. Zero keeps it alive until Shutdown.
	IdleTimeout time.Duration
	Clock       clock.Clock
	Logger      *zap.Logger
}

func (c *Config) setDefaults() {
	if c.Strategy == "" {
		c.Strategy = layout.Strategy(c.Catalog.Layout)
		if c.Strategy == "" {
			c.Strategy = layout.StrategyLinear
		}
	}
	if c.Width <= 0 {
		c.Width = 1300
	}
	if c.Rules == (engine.Rules{}) {
		c.Rules = engine.DefaultRules()
	}
	if c.TickInterval <= 0 {
		c.TickInterval = 16 * time.Millisecond
	}
	if c.Clock == nil {
		c.Clock = clock.Real()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Section is one mounted animated section. A single goroutine owns all of
// its state; everything else talks to it through the inbox.
type Section struct {
	cfg     Config
	ids     []string
	inbox   chan Msg
	state   engine.State
	hover   engine.Hover
	orbit   engine.Orbit
	trigger *visibility.Trigger
	frame   layout.Frame
	version int
	clients map[string]chan Snapshot

	ticker   clock.Ticker
	lastTick time.Time

	idle       clock.Ticker
	lastActive time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	last   View
	log    *zap.Logger
}

func New(parent context.Context, cfg Config) (*Section, error) {
	cfg.setDefaults()
	cfg.Catalog = cfg.Catalog.Clone()
	if err := cfg.Catalog.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Section{
		cfg:     cfg,
		ids:     cfg.Catalog.IDs(),
		inbox:   make(chan Msg, 64),
		state:   engine.NewState(len(cfg.Catalog.Items), cfg.Rules),
		orbit:   engine.Orbit{Period: cfg.OrbitPeriod},
		trigger: visibility.New(cfg.VisibilityMargin),
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     cfg.Logger.With(zap.String("section", cfg.ID), zap.String("catalog", cfg.Catalog.Name)),
	}
	if err := s.render(); err != nil {
		cancel()
		return nil, fmt.Errorf("initial frame: %w", err)
	}
	s.lastActive = cfg.Clock.Now()
	s.syncIdle()

	go s.loop()
	return s, nil
}

func (s *Section) loop() {
	defer close(s.done)

	for {
		var tickC, idleC <-chan time.Time
		if s.ticker != nil {
			tickC = s.ticker.C()
		}
		if s.idle != nil {
			idleC = s.idle.C()
		}

		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case now := <-tickC:
			s.onTick(now)

		case now := <-idleC:
			if idleFor := now.Sub(s.lastActive); len(s.clients) == 0 && idleFor >= s.cfg.IdleTimeout {
				s.log.Info("reaping idle section", zap.Duration("idle", idleFor))
				s.shutdown()
				return
			}

		case m := <-s.inbox:
			s.lastActive = s.cfg.Clock.Now()
			switch msg := m.(type) {
			case Observe:
				if s.trigger.Observe(msg.Obs) {
					s.apply(engine.Command{Type: engine.CmdReveal})
				}
				if msg.Reply != nil {
					select {
					case msg.Reply <- s.state.Visible:
					default:
					}
				}

			case Reveal:
				s.apply(engine.Command{Type: engine.CmdReveal})

			case HoverEnter:
				// Unknown ids are ignored rather than pinned.
				if !s.known(msg.ItemID) || s.hover.ItemID == msg.ItemID {
					break
				}
				s.hover = engine.Hover{ItemID: msg.ItemID}
				s.publish()

			case HoverLeave:
				if !s.hover.Active() {
					break
				}
				s.hover = engine.Hover{}
				s.publish()

			case Pause:
				s.apply(engine.Command{Type: engine.CmdPause})

			case Resume:
				s.apply(engine.Command{Type: engine.CmdResume})

			case Resize:
				if msg.Width <= 0 || msg.Width == s.cfg.Width {
					break
				}
				s.cfg.Width = msg.Width
				s.publish()

			case Join:
				// A rejoin under the same id ends the previous stream.
				if old, ok := s.clients[msg.ClientID]; ok && old != msg.Outbox {
					close(old)
				}
				// Register client + send current snapshot immediately
				s.clients[msg.ClientID] = msg.Outbox
				s.send(msg.ClientID, msg.Outbox, s.snapshot())

			case Leave:
				delete(s.clients, msg.ClientID)

			case GetState:
				msg.Reply <- s.view()

			case Shutdown:
				s.shutdown()
				return
			}
		}
		s.syncIdle()
	}
}

func (s *Section) onTick(now time.Time) {
	delta := now.Sub(s.lastTick)
	s.lastTick = now
	if delta <= 0 {
		return
	}

	events, next, err := engine.Apply(s.state, engine.Command{Type: engine.CmdTick, Delta: delta})
	if err != nil {
		s.log.Warn("tick rejected", zap.Error(err))
		return
	}
	changed := next != s.state
	s.state = next
	for _, e := range events {
		if e.Type == engine.EvtItemActivated {
			s.log.Debug("item activated", zap.Int("index", e.Index), zap.String("item", s.ids[e.Index]))
		}
	}

	if s.cfg.Strategy == layout.StrategyRadial && !(s.cfg.Catalog.PauseOrbitOnHover && s.hover.Active()) {
		orbit := s.orbit.Advance(delta)
		changed = changed || orbit != s.orbit
		s.orbit = orbit
	}

	if changed {
		s.publish()
	}
}

func (s *Section) apply(cmd engine.Command) {
	events, next, err := engine.Apply(s.state, cmd)
	if err != nil {
		s.log.Warn("command rejected", zap.String("command", string(cmd.Type)), zap.Error(err))
		return
	}
	if len(events) == 0 {
		return
	}
	s.state = next
	s.log.Debug("command applied", zap.String("command", string(cmd.Type)))
	s.syncTimer()
	s.publish()
}

// syncTimer arms the ticker while the sequencer is running and releases it
// otherwise. Any previous ticker is stopped before a new one is created.
func (s *Section) syncTimer() {
	running := engine.Running(s.state) || (s.state.Visible && !s.state.Paused && s.cfg.Strategy == layout.StrategyRadial && s.orbit.Period > 0)
	switch {
	case running && s.ticker == nil:
		s.ticker = s.cfg.Clock.NewTicker(s.cfg.TickInterval)
		s.lastTick = s.cfg.Clock.Now()
	case !running && s.ticker != nil:
		s.stopTimer()
	}
}

func (s *Section) stopTimer() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// syncIdle arms the idle ticker while the section has no clients.
func (s *Section) syncIdle() {
	if s.cfg.IdleTimeout <= 0 {
		return
	}
	switch {
	case len(s.clients) == 0 && s.idle == nil:
		s.idle = s.cfg.Clock.NewTicker(s.cfg.IdleTimeout)
	case len(s.clients) > 0 && s.idle != nil:
		s.idle.Stop()
		s.idle = nil
	}
}

func (s *Section) known(id string) bool { return slices.Contains(s.ids, id) }

func (s *Section) render() error {
	d := engine.Resolve(s.state, s.hover, s.ids)
	f, err := layout.Compute(s.cfg.Strategy, s.cfg.Catalog.Items, d, layout.Options{
		Width:    s.cfg.Width,
		Rotation: s.orbit.Angle,
	})
	if err != nil {
		return err
	}
	s.frame = f
	return nil
}

// publish re-renders, bumps the version and broadcasts.
func (s *Section) publish() {
	if err := s.render(); err != nil {
		s.log.Error("render failed", zap.Error(err))
		return
	}
	s.version++
	s.broadcast(s.snapshot())
}

func (s *Section) view() View {
	return View{
		ID:         s.cfg.ID,
		Catalog:    s.cfg.Catalog.Name,
		Version:    s.version,
		NumClients: len(s.clients),
		State:      s.state,
		Hover:      s.hover,
		Orbit:      s.orbit,
		Frame:      s.frame,
	}
}

func (s *Section) snapshot() Snapshot {
	return Snapshot{Version: s.version, View: s.view()}
}

func (s *Section) shutdown() {
	s.stopTimer()
	if s.idle != nil {
		s.idle.Stop()
		s.idle = nil
	}
	s.last = s.view()
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
	s.log.Debug("section shut down", zap.Int("version", s.version))
}

func (s *Section) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		s.send(id, ch, snap)
	}
}

func (s *Section) send(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		//ok
	default:
		// Client is slow/full - drop them.
		s.log.Info("dropping slow client", zap.String("client", id))
		close(ch)
		delete(s.clients, id)
	}
}

// Expose the inbox so tests or the WS layer can send messages.
func (s *Section) Inbox() chan<- Msg { return s.inbox }

func (s *Section) ID() string { return s.cfg.ID }

// Done is closed once the section's goroutine has exited.
func (s *Section) Done() <-chan struct{} { return s.done }

// Last returns the final view. Only meaningful after Done is closed.
func (s *Section) Last() View {
	<-s.done
	return s.last
}

// Send delivers m unless the section has already shut down.
func (s *Section) Send(ctx context.Context, m Msg) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State asks the section for its current view.
func (s *Section) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}
