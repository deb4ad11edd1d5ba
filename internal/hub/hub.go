package hub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/clock"
	"github.com/DoyleJ11/portfolio-backend/internal/engine"
	"github.com/DoyleJ11/portfolio-backend/internal/layout"
	"github.com/DoyleJ11/portfolio-backend/internal/section"
)

var ErrNotFound = errors.New("section not found")
var ErrClosed = errors.New("hub closed")
var ErrFull = errors.New("too many sections")

type HubMsg interface{ isHubMsg() }

type Mount struct {
	Catalog string
	Layout  string // empty: the catalog's own layout
	Width   float64
	Reply   chan MountResult
}

type MountResult struct {
	Section *section.Section
	Err     error
}

type Get struct {
	ID    string
	Reply chan *section.Section // nil when unknown
}

type Unmount struct {
	ID    string
	Reply chan bool // optional; false when unknown
}

type Count struct {
	Reply chan int
}

type ShutdownHub struct{}

// exited reports a section that stopped on its own, e.g. after idling.
type exited struct {
	ID      string
	Section *section.Section
}

func (Mount) isHubMsg()       {}
func (Get) isHubMsg()         {}
func (Unmount) isHubMsg()     {}
func (Count) isHubMsg()       {}
func (ShutdownHub) isHubMsg() {}
func (exited) isHubMsg()      {}

// Config is applied to every mounted section.
type Config struct {
	Catalogs         *catalog.Set
	Rules            engine.Rules
	TickInterval     time.Duration
	OrbitPeriod      time.Duration
	VisibilityMargin float64
	// IdleTimeout reaps sections with no clients; see section.Config.
	IdleTimeout time.Duration
	// MaxSections caps mounted sections. Zero means no cap.
	MaxSections int
	Clock       clock.Clock
	Logger      *zap.Logger
}

// Hub owns every mounted section. Sections share nothing with each other.
type Hub struct {
	cfg      Config
	inbox    chan HubMsg
	sections map[string]*section.Section
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	log      *zap.Logger
}

func NewHub(parent context.Context, cfg Config) *Hub {
	if cfg.Catalogs == nil {
		cfg.Catalogs = catalog.DefaultSet()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		cfg:      cfg,
		inbox:    make(chan HubMsg, 64),
		sections: make(map[string]*section.Section),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		log:      cfg.Logger,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed after the hub and all of its sections have stopped.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Mount:
				s, err := h.mount(msg)
				msg.Reply <- MountResult{Section: s, Err: err}

			case Get:
				msg.Reply <- h.sections[msg.ID] // May be nil

			case Unmount:
				s, ok := h.sections[msg.ID]
				if ok {
					delete(h.sections, msg.ID)
					_ = s.Send(h.ctx, section.Shutdown{})
					h.log.Debug("section unmounted", zap.String("section", msg.ID))
				}
				if msg.Reply != nil {
					msg.Reply <- ok
				}

			case Count:
				msg.Reply <- len(h.sections)

			case exited:
				if h.sections[msg.ID] == msg.Section {
					delete(h.sections, msg.ID)
					h.log.Debug("section reaped", zap.String("section", msg.ID))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) mount(msg Mount) (*section.Section, error) {
	if h.cfg.MaxSections > 0 && len(h.sections) >= h.cfg.MaxSections {
		return nil, fmt.Errorf("%w: %d mounted", ErrFull, len(h.sections))
	}
	c, err := h.cfg.Catalogs.Get(msg.Catalog)
	if err != nil {
		return nil, err
	}
	name := msg.Layout
	if name == "" {
		name = c.Layout
	}
	strategy, err := layout.Lookup(name)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s, err := section.New(h.ctx, section.Config{
		ID:               id,
		Catalog:          c,
		Strategy:         strategy,
		Width:            msg.Width,
		Rules:            h.cfg.Rules,
		TickInterval:     h.cfg.TickInterval,
		OrbitPeriod:      h.cfg.OrbitPeriod,
		VisibilityMargin: h.cfg.VisibilityMargin,
		IdleTimeout:      h.cfg.IdleTimeout,
		Clock:            h.cfg.Clock,
		Logger:           h.log,
	})
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", msg.Catalog, err)
	}
	h.sections[id] = s
	go h.watch(id, s)
	h.log.Debug("section mounted", zap.String("section", id), zap.String("catalog", c.Name), zap.String("layout", string(strategy)))
	return s, nil
}

// watch tells the loop when a section stops without being unmounted.
func (h *Hub) watch(id string, s *section.Section) {
	select {
	case <-s.Done():
	case <-h.done:
		return
	}
	select {
	case h.inbox <- exited{ID: id, Section: s}:
	case <-h.done:
	}
}

func (h *Hub) shutdown() {
	h.cancel()
	for id, s := range h.sections {
		<-s.Done()
		delete(h.sections, id)
	}
	h.log.Debug("hub shut down")
}

func (h *Hub) send(ctx context.Context, m HubMsg) error {
	select {
	case <-h.done:
		return ErrClosed
	default:
	}
	select {
	case h.inbox <- m:
		return nil
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) MountSection(ctx context.Context, catalogName, layoutName string, width float64) (*section.Section, error) {
	reply := make(chan MountResult, 1)
	if err := h.send(ctx, Mount{Catalog: catalogName, Layout: layoutName, Width: width, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		return r.Section, r.Err
	case <-h.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) Section(ctx context.Context, id string) (*section.Section, error) {
	reply := make(chan *section.Section, 1)
	if err := h.send(ctx, Get{ID: id, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case s := <-reply:
		if s == nil {
			return nil, ErrNotFound
		}
		return s, nil
	case <-h.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) UnmountSection(ctx context.Context, id string) error {
	reply := make(chan bool, 1)
	if err := h.send(ctx, Unmount{ID: id, Reply: reply}); err != nil {
		return err
	}
	select {
	case ok := <-reply:
		if !ok {
			return ErrNotFound
		}
		return nil
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
