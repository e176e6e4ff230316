package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"

	"github.com/rm-hull/prix-carburants-api/internal"
	"github.com/rm-hull/prix-carburants-api/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func ApiServer(port int, debug bool) error {

	app, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// the server answers 503 on searches until the first load completes
	go app.refresher.RefreshOnce(ctx)

	scheduler, err := internal.StartCron(ctx, app.refresher, app.cache, app.cfg)
	if err != nil {
		return errors.Wrap(err, "failed to start CRON jobs")
	}
	defer func() {
		<-scheduler.Stop().Done()
	}()

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Warn().Msg("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		app.store.Check(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize healthcheck")
	}

	api := r.Group("/api")
	api.GET("/search", routes.Search(app.engine, app.store))
	api.GET("/suggestions", routes.Suggestions(app.engine))
	api.GET("/status", routes.Status(app.store, app.cache))
	api.GET("/station/:id", routes.Station(app.store))
	api.POST("/cache/clear", routes.ClearCache(app.cache))
	api.POST("/reload", routes.Reload(app.refresher))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("starting HTTP API Server on port %d...", port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "HTTP API Server failed to start on port %d", port)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP API Server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
