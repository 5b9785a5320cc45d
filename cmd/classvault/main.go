package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/smartclass/classvault/internal/cli"
	"github.com/smartclass/classvault/internal/codec"
	"github.com/smartclass/classvault/internal/config"
	"github.com/smartclass/classvault/internal/guard"
	"github.com/smartclass/classvault/internal/localcache"
	"github.com/smartclass/classvault/internal/logging"
	"github.com/smartclass/classvault/internal/reconcile"
	"github.com/smartclass/classvault/internal/remote"
	"github.com/smartclass/classvault/internal/session"
	"github.com/smartclass/classvault/internal/vault"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	c := codec.New()
	cache, err := localcache.Open(ctx, cfg.LocalDBPath, c)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer cache.Close()

	// Descriptor priority: invite flags win and are persisted, then
	// build-time environment, then whatever a previous launch saved.
	desc := cfg.Remote
	if cfg.RemoteFromFlags {
		if err := cache.SaveDescriptor(ctx, desc); err != nil {
			logger.Warn(ctx, "could not persist remote descriptor", "error", err)
		}
	} else if desc.Empty() {
		persisted, err := cache.LoadDescriptor(ctx)
		if err != nil {
			logger.Warn(ctx, "could not read persisted remote descriptor", "error", err)
		} else {
			desc = persisted
		}
	}

	// An unreachable remote store downgrades the launch to local-only
	// instead of aborting it.
	var store *remote.Store
	if !desc.Empty() {
		store, err = remote.Open(ctx, desc, logger)
		if err != nil {
			logger.Warn(ctx, "remote store unavailable, running local-only", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	// Interface variables stay untyped-nil when no store is active, so
	// collaborators can test for nil.
	var dir guard.Directory
	var sessionRemote session.Remote
	var vaultRemote vault.Remote
	if store != nil {
		dir = store
		sessionRemote = store
		vaultRemote = store
	}

	g := guard.New(dir, logger)
	rec := reconcile.NewReconciler(cache, logger)
	svc := vault.NewService(g, c, cache, vaultRemote, rec, desc, logger)
	resolver := session.NewResolver(c, cache, sessionRemote, logger)

	app := cli.NewApp(svc, resolver)
	app.SetupMode = cfg.SetupMode
	app.Run(ctx)
}
