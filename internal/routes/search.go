package routes

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rm-hull/prix-carburants-api/internal/models"
	"github.com/rm-hull/prix-carburants-api/internal/search"
	"github.com/rm-hull/prix-carburants-api/internal/stats"
)

const priceBucketCents = 5

type LastUpdater interface {
	LastUpdated() (time.Time, bool)
}

func Search(engine *search.Engine, dataset LastUpdater) func(c *gin.Context) {
	return func(c *gin.Context) {
		city := strings.TrimSpace(c.Query("ville"))
		if city == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nom de ville requis"})
			return
		}

		result, err := engine.SearchByCity(city)
		if err != nil {
			respondWithError(c, err, "error while searching stations")
			return
		}

		filter := search.Filter{
			Category:  strings.TrimSpace(c.Query("type")),
			Hours:     strings.TrimSpace(c.Query("horaires")),
			FuelTypes: parseFuelTypes(c.Query("carburants")),
			Sort:      strings.TrimSpace(c.DefaultQuery("tri", search.DefaultSortOrder)),
		}

		stations := result.Stations
		if !filter.IsDefault() {
			stations = engine.FilterStations(stations, filter)
		}

		response := models.SearchResponse{
			Stations: models.ToAPI(stations),
			Count:    len(stations),
			City:     city,
			FiltersApplied: models.FiltersApplied{
				Category:  filter.Category,
				Hours:     filter.Hours,
				FuelTypes: filter.FuelTypes,
				Sort:      filter.Sort,
			},
			Statistics: stats.Derive(stations, priceBucketCents),
		}
		if lastUpdated, ok := dataset.LastUpdated(); ok {
			response.LastUpdated = &lastUpdated
		}

		c.JSON(http.StatusOK, response)
	}
}

func Suggestions(engine *search.Engine) func(c *gin.Context) {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if len([]rune(query)) < 2 {
			c.JSON(http.StatusOK, gin.H{"suggestions": []string{}})
			return
		}

		limit, err := strconv.Atoi(c.Query("limit"))
		if err != nil {
			limit = search.DefaultSuggestions
		}

		suggestions := engine.Suggestions(query, search.ClampLimit(limit))
		c.JSON(http.StatusOK, models.SuggestionsResponse{
			Suggestions: suggestions,
			Query:       query,
			Count:       len(suggestions),
		})
	}
}

func parseFuelTypes(param string) []string {
	fuelTypes := []string{}
	for _, fuel := range strings.Split(param, ",") {
		if fuel = strings.TrimSpace(fuel); fuel != "" {
			fuelTypes = append(fuelTypes, fuel)
		}
	}
	return fuelTypes
}
