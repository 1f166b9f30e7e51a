package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ochakos-kitchen/go-server/internal/catalog"
	"github.com/ochakos-kitchen/go-server/internal/httpserver"
	"github.com/ochakos-kitchen/go-server/internal/round"
	"github.com/ochakos-kitchen/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := catalog.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load dish catalog")
	}
	d, v := catalog.Stats()
	log.Info().Int("dishes", d).Int("validWords", v).Msg("catalog loaded")

	ps, err := store.OpenSQLite(getEnv("DB_PATH", "./data/kitchen.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open player store")
	}

	mgr := round.NewManager(ps)
	srv := httpserver.New(mgr)

	port := getEnv("PORT", "3000")
	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		log.Info().Msg("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
		if err := ps.Close(); err != nil {
			log.Warn().Err(err).Msg("close player store")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("port", port).Msg("starting kitchen server")
	if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-idleConnsClosed
	log.Info().Msg("server shutdown complete")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
