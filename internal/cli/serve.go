package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-recipe-backend/internal/airtable"
	"github.com/tbourn/go-recipe-backend/internal/config"
	httpapi "github.com/tbourn/go-recipe-backend/internal/http"
	"github.com/tbourn/go-recipe-backend/internal/llm"
	"github.com/tbourn/go-recipe-backend/internal/observability"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/sysutil"
)

const shutdownGrace = 15 * time.Second

type serveOptions struct {
	Port string
}

// NewServeCommand runs the HTTP API until SIGINT or SIGTERM.
func NewServeCommand(root *RootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.Port != "" {
				cfg.Port = opts.Port
			}
			sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, root.Version)
		},
	}
	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, version string) error {
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	srv, closers, err := buildServer(ctx, cfg)
	defer closeAll(closers)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// buildServer opens every backing resource and returns the configured
// server. closers must be closed even when err is non-nil.
func buildServer(ctx context.Context, cfg config.Config) (srv *http.Server, closers []io.Closer, err error) {
	db, err := repo.OpenDB(cfg.DBDriver, cfg.DBPath, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB)
	}

	client := airtable.New(cfg.Airtable.BaseURL, cfg.Airtable.BaseID, cfg.Airtable.APIKey,
		cfg.Airtable.Timeout, airtable.WithRateLimit(cfg.Airtable.RPS))

	gen, err := llm.New(ctx, cfg.LLM, nil)
	if err != nil {
		return nil, closers, err
	}
	if c, ok := gen.(io.Closer); ok {
		closers = append(closers, c)
	}
	if _, ok := gen.(llm.Unconfigured); ok {
		log.Warn().Str("provider", cfg.LLM.Provider).Msg("no language model key; generation routes will fail")
	}

	deps := httpapi.Deps{
		DB:        db,
		Records:   repo.NewRecords(client, cfg.Airtable.Tables),
		Generator: gen,
	}
	if cfg.RedisURL != "" {
		drafts, err := repo.NewDraftStore(ctx, cfg.RedisURL, cfg.DraftTTL)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, drafts)
		deps.Drafts = drafts
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	if err := httpapi.RegisterRoutes(r, deps, cfg); err != nil {
		return nil, closers, err
	}

	return &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}, closers, nil
}

func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}
