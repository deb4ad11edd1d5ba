package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/portfolio-backend/internal/chat"
	"github.com/DoyleJ11/portfolio-backend/internal/clock"
	"github.com/DoyleJ11/portfolio-backend/internal/config"
	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/httpapi"
	"github.com/DoyleJ11/portfolio-backend/internal/hub"
	"github.com/DoyleJ11/portfolio-backend/internal/logging"
	"github.com/DoyleJ11/portfolio-backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) (err error) {
	cfg, err := config.Load(configFlag, envFileFlags...)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	catalogFile := catalogFlag
	if catalogFile == "" {
		catalogFile = cfg.CatalogFile
	}
	catalogs, err := loadCatalogs(catalogFile)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	prompt, err := chat.BuildPrompt(catalogs)
	if err != nil {
		return err
	}

	h := hub.NewHub(context.Background(), hub.Config{
		Catalogs:         catalogs,
		Rules:            cfg.Animation.Rules(),
		TickInterval:     cfg.Animation.TickInterval,
		OrbitPeriod:      cfg.Orbit.Period,
		VisibilityMargin: cfg.Visibility.Margin,
		IdleTimeout:      cfg.Sections.IdleTimeout,
		MaxSections:      cfg.Sections.Max,
		Clock:            clock.Real(),
		Logger:           log.Named("hub"),
	})

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:      h,
			Catalogs: catalogs,
			Rules:    cfg.Animation.Rules(),
			Store:    st,
			Contact:  contact.NewService(st, log.Named("contact")),
			Chat: chat.NewProxy(chat.Config{
				URL:    cfg.Chat.URL,
				Key:    cfg.Chat.Key,
				Model:  cfg.Chat.Model,
				Prompt: prompt,
				Logger: log.Named("chat"),
			}),
			AdminTokenHash: cfg.Admin.TokenHash,
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         log.Named("http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(sctx)
		select {
		case h.Inbox() <- hub.ShutdownHub{}:
		case <-h.Done():
		}
		select {
		case <-h.Done():
		case <-sctx.Done():
			err = multierr.Append(err, sctx.Err())
		}
		return err
	})
	return g.Wait()
}
