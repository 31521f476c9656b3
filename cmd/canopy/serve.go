package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/canopy"
	httpapi "github.com/aretw0/canopy/pkg/adapters/http"
	redisstore "github.com/aretw0/canopy/pkg/adapters/redis"
	"github.com/aretw0/canopy/internal/adapters"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/nodes"
	"github.com/aretw0/canopy/pkg/ports"
	"github.com/aretw0/canopy/pkg/support"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an empty tree and expose the control protocol over HTTP",
	Long: `Starts the control loop with an empty tree and serves the command/event
protocol, tree persistence, and prometheus metrics on one listener. The tree
is edited live through POST /commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen, _ = cmd.Flags().GetString("listen")
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		sup := support.New()
		if err := nodes.Register(sup); err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		rt := canopy.New(sup,
			canopy.WithLogger(logger),
			canopy.WithTickInterval(cfg.Interval),
			canopy.WithRunRoots(cfg.RunRoots),
			canopy.WithMetrics(reg),
			canopy.WithQueueSize(256),
		)

		store, closeStore, err := newTreeStore(cfg)
		if err != nil {
			return err
		}
		if closeStore != nil {
			defer closeStore()
		}

		mux := chi.NewRouter()
		mux.Mount("/", httpapi.NewHandler(rt.Client(), httpapi.WithLogger(logger)))
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		if store != nil {
			mountTreeStore(mux, store)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:         cfg.Listen,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		loopDone := make(chan error, 1)
		go func() {
			loopDone <- rt.Run(ctx)
		}()

		logger.Info("listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			<-loopDone
			return err
		}
		if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// newTreeStore picks the persistence backend from settings: redis when an
// address is configured, a directory when store_dir is set, nothing
// otherwise.
func newTreeStore(cfg settings) (ports.TreeStore, func() error, error) {
	if cfg.Redis.Address != "" {
		store := redisstore.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		return store, store.Close, nil
	}
	if cfg.StoreDir != "" {
		store, err := adapters.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
	return nil, nil, nil
}

// mountTreeStore adds named snapshot routes next to the control API. The
// endpoints move documents between clients and the store; pushing a stored
// document onto the running tree is still a LoadTreeConfig command.
func mountTreeStore(mux chi.Router, store ports.TreeStore) {
	mux.Get("/trees", func(w http.ResponseWriter, r *http.Request) {
		names, err := store.List(r.Context())
		if err != nil {
			storeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(names)
	})
	mux.Get("/trees/{name}", func(w http.ResponseWriter, r *http.Request) {
		data, err := store.Load(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrTreeNotFound) {
				status = http.StatusNotFound
			}
			storeError(w, status, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})
	mux.Put("/trees/{name}", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			storeError(w, http.StatusBadRequest, err)
			return
		}
		if _, err := support.DecodeDocument(data); err != nil {
			storeError(w, http.StatusBadRequest, err)
			return
		}
		if err := store.Save(r.Context(), chi.URLParam(r, "name"), data); err != nil {
			storeError(w, http.StatusInternalServerError, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Delete("/trees/{name}", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
			storeError(w, http.StatusInternalServerError, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func storeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().String("listen", "127.0.0.1:8180", "Listen address for the HTTP control API")
	rootCmd.AddCommand(serveCmd)
}
