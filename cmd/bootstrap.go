package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/rm-hull/godx"

	"github.com/rm-hull/prix-carburants-api/internal"
	"github.com/rm-hull/prix-carburants-api/internal/brands"
	"github.com/rm-hull/prix-carburants-api/internal/cache"
	"github.com/rm-hull/prix-carburants-api/internal/config"
	"github.com/rm-hull/prix-carburants-api/internal/dataset"
	"github.com/rm-hull/prix-carburants-api/internal/feed"
	"github.com/rm-hull/prix-carburants-api/internal/search"
)

type components struct {
	cfg       *config.Config
	store     *dataset.Store
	cache     *cache.TTLCache
	engine    *search.Engine
	refresher *internal.Refresher
}

// bootstrap initialises shared resources used by both the API server and import
// commands. Nothing is downloaded yet: the dataset starts empty.
func bootstrap() (*components, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	cfg.InitializeLogging()

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	extractor, err := brands.NewExtractor()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load brand table")
	}

	store := dataset.NewStore()
	ttlCache := cache.NewTTLCache(cfg.CacheTTL)
	client := internal.NewFeedClient(cfg)

	return &components{
		cfg:       cfg,
		store:     store,
		cache:     ttlCache,
		engine:    search.NewEngine(store, ttlCache),
		refresher: internal.NewRefresher(client, feed.NewParser(extractor), store, ttlCache),
	}, nil
}
