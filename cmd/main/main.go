package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"coursedash/pkg/config"
	"coursedash/pkg/documents"
	"coursedash/pkg/initial"
	"coursedash/pkg/logger"
	"coursedash/pkg/models"
	"coursedash/pkg/routes"
	"coursedash/pkg/search"
	"coursedash/pkg/store"
)

func main() {
	envErr := initial.LoadEnvComp()
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(false)
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.IsDevelopment())
	if envErr != nil {
		log.Info().Msg(".env file not found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.Port).Msg("could not listen")
	}
	if err := run(ctx, cfg, log, ln); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// run serves the API on ln until ctx is done, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, ln net.Listener) error {
	slots, err := initial.OpenSlots(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer slots.Close()

	st, err := store.Open(ctx, slots, store.WithLogger(log))
	if err != nil {
		return fmt.Errorf("load course store: %w", err)
	}

	var index search.Indexer
	es, err := initial.InitES(cfg, log)
	if err != nil {
		return err
	}
	if es != nil {
		index = es
		go func() {
			if err := es.Reindex(ctx, st.ListCourses(models.CourseFilter{})); err != nil {
				log.Error().Err(err).Msg("initial reindex failed")
			}
		}()
	}

	var objects documents.ObjectStore
	if objects, err = initial.InitObjects(ctx, cfg); err != nil {
		return fmt.Errorf("open %s upload storage: %w", cfg.UploadBackend, err)
	}

	events := initial.InitKafka(cfg, log)
	defer events.Close()

	r := routes.New(routes.Deps{
		Store:          st,
		Index:          index,
		Events:         events,
		Objects:        objects,
		BaseURL:        cfg.PublicBaseURL,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Log:            log,
	})
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Str("storage", cfg.StorageBackend).Msg("server started")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
