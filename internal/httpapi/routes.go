package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/chat"
	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/engine"
	"github.com/DoyleJ11/portfolio-backend/internal/hub"
	"github.com/DoyleJ11/portfolio-backend/internal/logging"
	"github.com/DoyleJ11/portfolio-backend/internal/store"
	"github.com/DoyleJ11/portfolio-backend/internal/ws"
)

// Deps are the collaborators the router hands to its handlers.
type Deps struct {
	Hub            *hub.Hub
	Catalogs       *catalog.Set
	Rules          engine.Rules
	Store          store.Store
	Contact        *contact.Service
	Chat           *chat.Proxy
	AdminTokenHash string
	AllowedOrigins []string
	Logger         *zap.Logger
}

type API struct {
	d   Deps
	log *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Catalogs == nil {
		d.Catalogs = catalog.DefaultSet()
	}
	if d.Rules == (engine.Rules{}) {
		d.Rules = engine.DefaultRules()
	}
	a := &API{d: d, log: d.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(d.AllowedOrigins))

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(d.Hub, wsOrigins(d.AllowedOrigins), d.Logger))
	r.Get("/layout/{catalog}", a.Layout)

	r.Route("/sections", func(r chi.Router) {
		r.Post("/", a.MountSection)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.GetSection)
			r.Delete("/", a.UnmountSection)
			r.Post("/visibility", a.Observe)
			r.Put("/hover", a.HoverEnter)
			r.Delete("/hover", a.HoverLeave)
			r.Post("/pause", a.Pause)
			r.Post("/resume", a.Resume)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/resume", a.ResumeRoles)
		r.Get("/resume/{role}", a.ResumeContent)
		r.Get("/projects", a.Projects)
		r.Get("/projects/{slug}", a.Project)
		r.With(middleware.Throttle(16)).Post("/contact", a.Contact)
		r.With(middleware.Timeout(3*time.Minute)).Post("/chat", a.Chat)
	})

	// Admin routes
	r.With(a.adminOnly).Get("/admin/messages", a.Messages)
	return r
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
