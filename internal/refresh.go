package internal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rm-hull/prix-carburants-api/internal/dataset"
	"github.com/rm-hull/prix-carburants-api/internal/metrics"
	"github.com/rm-hull/prix-carburants-api/internal/models"
)

type FeedParser interface {
	Parse(xmlText string) ([]*models.Station, error)
}

type CacheClearer interface {
	Clear()
}

// Refresher runs the download, extract, parse and swap cycle. Cycles are
// serialised; a failed cycle leaves the current snapshot untouched.
type Refresher struct {
	client FeedClient
	parser FeedParser
	store  *dataset.Store
	cache  CacheClearer

	mu          sync.Mutex
	lastSuccess atomic.Bool
}

func NewRefresher(client FeedClient, parser FeedParser, store *dataset.Store, cache CacheClearer) *Refresher {
	return &Refresher{
		client: client,
		parser: parser,
		store:  store,
		cache:  cache,
	}
}

// RefreshOnce reports whether a new snapshot was installed. On success the
// search cache is cleared so no result computed from the old snapshot survives.
func (r *Refresher) RefreshOnce(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()
	stations, err := r.load(ctx)
	metrics.RefreshDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		log.Error().Err(err).Bool("data_loaded", r.store.IsLoaded()).Msg("failed to load station data")
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		r.lastSuccess.Store(false)
		return false
	}

	snapshot := r.store.Replace(stations)
	if r.cache != nil {
		r.cache.Clear()
	}

	metrics.RefreshTotal.WithLabelValues("success").Inc()
	metrics.Stations.Set(float64(len(snapshot.Stations)))
	metrics.LastRefresh.Set(float64(snapshot.LastUpdated.Unix()))
	log.Info().Dur("took", time.Since(started)).Msgf("data loaded: %d stations", len(snapshot.Stations))

	r.lastSuccess.Store(true)
	return true
}

func (r *Refresher) load(ctx context.Context) ([]*models.Station, error) {
	data, err := r.client.FetchArchive(ctx)
	if err != nil {
		return nil, err
	}

	xmlText, err := r.client.ExtractXML(data)
	if err != nil {
		return nil, err
	}

	return r.parser.Parse(xmlText)
}

// Reload is the administrative out-of-band refresh.
func (r *Refresher) Reload(ctx context.Context) (int, bool) {
	log.Info().Msg("manual reload requested")
	ok := r.RefreshOnce(ctx)
	return r.store.Count(), ok
}

// Tick is the periodic job. It stays dormant after a failed attempt until a
// Reload succeeds.
func (r *Refresher) Tick(ctx context.Context) {
	if !r.lastSuccess.Load() {
		log.Warn().Msg("skipping scheduled refresh: last attempt failed, waiting for a manual reload")
		return
	}

	log.Info().Msg("scheduled refresh of station data")
	r.RefreshOnce(ctx)
}

func (r *Refresher) LastAttemptSucceeded() bool {
	return r.lastSuccess.Load()
}
