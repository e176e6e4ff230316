package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

type StationFinder interface {
	Find(id string) (*models.Station, bool)
}

func Station(finder StationFinder) func(c *gin.Context) {
	return func(c *gin.Context) {
		station, found := finder.Find(c.Param("id"))
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Station non trouvée"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"station": station.ToAPI()})
	}
}
