package internal

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/prix-carburants-api/internal/config"
)

type CacheSweeper interface {
	DeleteExpired() int
}

func StartCron(ctx context.Context, refresher *Refresher, sweeper CacheSweeper, cfg *config.Config) (*cron.Cron, error) {

	logger := cronLogger{}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))

	log.Info().Msgf("starting CRON jobs: refresh every %s, cache sweep every %s", cfg.RefreshInterval, cfg.CacheSweepInterval)

	if _, err := c.AddFunc(every(cfg.RefreshInterval.String()), func() {
		refresher.Tick(ctx)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(every(cfg.CacheSweepInterval.String()), func() {
		if removed := sweeper.DeleteExpired(); removed > 0 {
			log.Info().Msgf("cache: %d expired entries removed", removed)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func every(interval string) string {
	return fmt.Sprintf("@every %s", interval)
}

// cronLogger routes robfig/cron output through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
