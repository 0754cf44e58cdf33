package cli

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/internal/auth"
	"github.com/greenhouse-labs/strainsync/internal/cachefile"
	"github.com/greenhouse-labs/strainsync/internal/catalog"
	"github.com/greenhouse-labs/strainsync/internal/config"
	"github.com/greenhouse-labs/strainsync/internal/db"
	"github.com/greenhouse-labs/strainsync/internal/favorites"
	"github.com/greenhouse-labs/strainsync/internal/identity"
	"github.com/greenhouse-labs/strainsync/internal/log"
	"github.com/greenhouse-labs/strainsync/internal/migration"
	"github.com/greenhouse-labs/strainsync/internal/remote"
	"github.com/greenhouse-labs/strainsync/internal/resolver"
	"github.com/greenhouse-labs/strainsync/internal/translate"
)

// errRemoteunconfigured is returned by commands that need the backend store
// when no remote.database_url is set.
var errRemoteUnconfigured = errors.New("remote store not configured (set remote.database_url)")

// app bundles the shared dependencies a command needs. Built per command
// invocation; Close releases everything.
type app struct {
	cfg   *config.Config
	paths config.Paths
	log   *log.Logger
	db    *db.DB

	remoteStore *remote.PostgresStore
}

// newApp loads config and opens the local database and logger.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	paths := config.GetPaths(cfg)

	logger, err := log.New(paths.LogDir)
	if err != nil {
		return nil, err
	}

	dbCfg := db.DefaultConfig(paths.Database)
	dbCfg.Debug = cfg.Debug
	database, err := db.New(dbCfg)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	result, err := migration.Apply(database)
	if err != nil {
		_ = database.Close()
		_ = logger.Close()
		return nil, err
	}
	if result.ToVersion != result.FromVersion {
		logger.Printf("migrated local database v%d -> v%d (%d mappings backfilled)\n",
			result.FromVersion, result.ToVersion, result.MappingsBackfilled)
	}

	return &app{cfg: cfg, paths: paths, log: logger, db: database}, nil
}

func (a *app) Close() {
	if a.remoteStore != nil {
		a.remoteStore.Close()
	}
	_ = a.db.Close()
	_ = a.log.Close()
}

// catalogClient builds the catalog client with the persisted cache store.
func (a *app) catalogClient() (*catalog.Client, error) {
	cache := cachefile.NewStore(a.paths.CacheDir)
	if err := cache.Load(); err != nil {
		return nil, err
	}
	return catalog.NewClient(catalog.Config{
		BaseURL:  a.cfg.Catalog.BaseURL,
		APIKey:   a.cfg.Catalog.APIKey,
		APIHost:  a.cfg.Catalog.APIHost,
		PageSize: a.cfg.Catalog.PageSize,
	}, cache, a.log), nil
}

// remote connects the backend store once per app.
func (a *app) remote(ctx context.Context) (remote.Store, error) {
	if a.remoteStore != nil {
		return a.remoteStore, nil
	}
	if a.cfg.Remote.DatabaseURL == "" {
		return nil, errRemoteUnconfigured
	}
	store, err := remote.NewPostgresStore(ctx, a.cfg.Remote.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.remoteStore = store
	return store, nil
}

// session builds the backend session from the environment token pair.
func (a *app) session() (*auth.Session, error) {
	access := os.Getenv("STRAINSYNC_ACCESS_TOKEN")
	refresh := os.Getenv("STRAINSYNC_REFRESH_TOKEN")
	if access == "" {
		return nil, errors.New("not signed in (set STRAINSYNC_ACCESS_TOKEN and STRAINSYNC_REFRESH_TOKEN)")
	}
	session := auth.NewSession(auth.Config{
		TokenURL: a.cfg.Remote.TokenURL,
		APIKey:   a.cfg.Remote.APIKey,
	}, &http.Client{})
	if err := session.SetTokens(access, refresh); err != nil {
		return nil, err
	}
	return session, nil
}

// favoritesService wires the full favorite toggle pipeline.
func (a *app) favoritesService(ctx context.Context) (*favorites.Service, *auth.Session, error) {
	store, err := a.remote(ctx)
	if err != nil {
		return nil, nil, err
	}
	session, err := a.session()
	if err != nil {
		return nil, nil, err
	}
	res := resolver.New(store, identity.NewMapper(a.db), a.log)
	return favorites.NewService(store, a.db, res, session, a.log), session, nil
}

// translator builds the attribute translator for the configured language.
func (a *app) translator() (*translate.Translator, error) {
	dict, err := translate.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	return translate.New(a.cfg.Language, dict), nil
}
