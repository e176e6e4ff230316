package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/prix-carburants-api/internal/dataset"
	"github.com/rm-hull/prix-carburants-api/internal/models"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service unavailable")
)

const (
	cityKeyPrefix        = "search_city_"
	suggestionsKeyPrefix = "suggestions_"

	DefaultSuggestions = 10
	MaxSuggestions     = 50
	minSuggestionQuery = 2
)

type Dataset interface {
	Snapshot() *dataset.Snapshot
}

type Cache interface {
	Memoize(key string, fn func() (any, error)) (any, bool, error)
}

type Engine struct {
	dataset Dataset
	cache   Cache
}

func NewEngine(ds Dataset, cache Cache) *Engine {
	return &Engine{
		dataset: ds,
		cache:   cache,
	}
}

// SearchByCity returns stations whose city contains the query, most recently
// updated first. Results are cached per normalised city, so repeated queries
// return the same *SearchResult until the cache entry expires, is cleared or
// the dataset is replaced.
func (e *Engine) SearchByCity(city string) (*models.SearchResult, error) {
	query := normalize(city)
	if query == "" {
		return nil, errors.Mark(errors.New("city name is required"), ErrInvalidInput)
	}
	snapshot := e.dataset.Snapshot()
	if !snapshot.Loaded {
		return nil, errors.Mark(errors.New("station data not loaded yet"), ErrServiceUnavailable)
	}

	value, cached, err := e.cache.Memoize(cacheKey(cityKeyPrefix+query, snapshot), func() (any, error) {
		var matches []*models.Station
		for _, station := range snapshot.Stations {
			if strings.Contains(strings.ToLower(station.City), query) {
				matches = append(matches, station)
			}
		}
		SortStations(matches, SortByDate)

		log.Info().Msgf("search '%s': %d stations found", city, len(matches))
		return &models.SearchResult{
			Stations: matches,
			Count:    len(matches),
			City:     city,
		}, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "search for %q failed", city)
	}

	if cached {
		log.Debug().Msgf("cached result for '%s'", city)
	}
	return value.(*models.SearchResult), nil
}

func (e *Engine) FilterStations(stations []*models.Station, f Filter) []*models.Station {
	return FilterStations(stations, f)
}

// Suggestions lists up to limit distinct city names containing the query,
// alphabetically. Queries shorter than two characters yield nothing.
func (e *Engine) Suggestions(query string, limit int) []string {
	query = normalize(query)
	if utf8.RuneCountInString(query) < minSuggestionQuery {
		return []string{}
	}
	snapshot := e.dataset.Snapshot()
	if !snapshot.Loaded {
		return []string{}
	}
	limit = ClampLimit(limit)

	key := cacheKey(fmt.Sprintf("%s%s_%d", suggestionsKeyPrefix, query, limit), snapshot)
	value, _, err := e.cache.Memoize(key, func() (any, error) {
		seen := make(map[string]bool, limit)
		cities := make([]string, 0, limit)
		for _, station := range snapshot.Stations {
			if seen[station.City] || !strings.Contains(strings.ToLower(station.City), query) {
				continue
			}
			seen[station.City] = true
			cities = append(cities, station.City)
			if len(cities) >= limit {
				break
			}
		}
		sort.Strings(cities)
		return cities, nil
	})
	if err != nil {
		log.Warn().Err(err).Msgf("suggestions for '%s' failed", query)
		return []string{}
	}

	return value.([]string)
}

// ClampLimit resets out-of-range suggestion limits to the default.
func ClampLimit(limit int) int {
	if limit < 1 || limit > MaxSuggestions {
		return DefaultSuggestions
	}
	return limit
}

// cacheKey scopes a key to the snapshot the value is computed from, so a
// computation that outlives a Replace can never be served afterwards.
func cacheKey(key string, snapshot *dataset.Snapshot) string {
	return fmt.Sprintf("%s@%d", key, snapshot.Generation)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
