package main

import (
	"context"

	"github.com/cppla/fitvault/config"
	"github.com/cppla/fitvault/routes"
	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	backend, err := utils.OpenStateBackend(context.Background(), cfg, utils.Logger.Named("store"))
	if err != nil {
		utils.Sugar.Fatalf("open state backend: %v", err)
	}

	hub := state.NewHub(backend.Store,
		state.WithLogger(utils.Logger.Named("state")),
		state.WithBroadcaster(backend.Broadcaster),
	)
	t := tracker.New(hub, tracker.Options{})

	r := routes.SetupRouter(cfg, hub, t)

	// WriteTimeout 0 keeps the event stream open.
	srv := utils.NewServer(cfg.Addr(), r, utils.DEFAULT_READ_TIMEOUT, 0)
	srv.OnStop(backend.Close)
	srv.OnStop(hub.Close)

	utils.Sugar.Infof("Starting server on %s (graceful), hub=%s", cfg.Addr(), hub.ID())
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
