package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tombola/internal/config"
	"tombola/internal/game"
	"tombola/internal/handlers"
	"tombola/internal/logging"
	"tombola/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tombola: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Debug || *debug); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	tracker, err := game.NewTracker(ctx, store, game.NewHub())
	if err != nil {
		return err
	}

	h := handlers.NewHandler(tracker)
	h.Heartbeat = cfg.Heartbeat
	h.WriteTimeout = cfg.WriteTimeout
	h.Commit = commit
	h.BuildDate = buildDate

	server := newServer(ctx, cfg.Addr, handlers.NewRouter(h))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Errorf("shutdown: %v", err)
		}
	}()

	logging.Infof("Tombola %s listening on %s", commit, cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logging.Infof("server closed")
	return nil
}

// newServer builds the HTTP server. Request contexts derive from ctx so
// streams end on the signal instead of holding Shutdown open.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func openStore(cfg config.Config) (game.Store, error) {
	if !cfg.UseDatabase() {
		logging.Infof("storing state in %s", cfg.DataFile)
		return storage.NewFileStore(cfg.DataFile), nil
	}
	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logging.Infof("storing state in %s database", db.Dialector.Name())
	return storage.NewDBStore(db), nil
}
