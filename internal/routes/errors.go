package routes

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/prix-carburants-api/internal/search"
)

const (
	msgInternalError = "Erreur interne du serveur"
	msgUnavailable   = "Service temporairement indisponible"
)

func respondWithError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, search.ErrInvalidInput):
		log.Warn().Err(err).Msg(context)
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.UnwrapAll(err).Error()})
	case errors.Is(err, search.ErrServiceUnavailable):
		log.Error().Err(err).Msg(context)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
	default:
		log.Error().Err(err).Msg(context)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
	}
}
