package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/prix-carburants-api/internal/cache"
)

type StatusSource interface {
	IsLoaded() bool
	LastUpdated() (time.Time, bool)
	Count() int
}

type CacheAdmin interface {
	Clear()
	Stats() cache.Stats
}

type Reloader interface {
	Reload(ctx context.Context) (int, bool)
}

type StatusResponse struct {
	Status        string      `json:"status"`
	DataLoaded    bool        `json:"data_loaded"`
	StationsCount int         `json:"stations_count"`
	LastUpdate    *time.Time  `json:"last_update"`
	CacheStats    cache.Stats `json:"cache_stats"`
}

func Status(dataset StatusSource, ttlCache CacheAdmin) func(c *gin.Context) {
	return func(c *gin.Context) {
		response := StatusResponse{
			Status:     "loading",
			DataLoaded: dataset.IsLoaded(),
			CacheStats: ttlCache.Stats(),
		}
		if response.DataLoaded {
			response.Status = "healthy"
			response.StationsCount = dataset.Count()
		}
		if lastUpdate, ok := dataset.LastUpdated(); ok {
			response.LastUpdate = &lastUpdate
		}

		c.JSON(http.StatusOK, response)
	}
}

func ClearCache(ttlCache CacheAdmin) func(c *gin.Context) {
	return func(c *gin.Context) {
		ttlCache.Clear()
		log.Info().Msg("cache cleared on request")
		c.JSON(http.StatusOK, gin.H{
			"message": "Cache vidé avec succès",
			"status":  "success",
		})
	}
}

func Reload(reloader Reloader) func(c *gin.Context) {
	return func(c *gin.Context) {
		// a dropped client connection must not abort a reload half way
		count, ok := reloader.Reload(context.WithoutCancel(c.Request.Context()))
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Échec du rechargement des données",
				"status":  "error",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Données rechargées avec succès",
			"status":         "success",
			"stations_count": count,
		})
	}
}
