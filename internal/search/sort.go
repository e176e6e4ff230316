package search

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

const (
	SortByDate       = "date-maj"
	SortByPriceAsc   = "prix-croissant"
	SortByPriceDesc  = "prix-decroissant"
	SortByCityName   = "ville-az"
	SortByBrandName  = "marque-az"
	DefaultSortOrder = SortByDate
)

// keyed caches the values compared while sorting so they are computed once per station.
type keyed struct {
	station   *models.Station
	latest    time.Time
	hasLatest bool
	average   float64
	city      string
	brand     string
}

// SortStations sorts in place. Unknown modes fall back to the default (most
// recently updated first). All sorts are stable.
func SortStations(stations []*models.Station, mode string) {
	items := make([]keyed, len(stations))
	for i, station := range stations {
		latest, ok := station.LatestUpdate()
		items[i] = keyed{
			station:   station,
			latest:    latest,
			hasLatest: ok,
			average:   station.AveragePrice(),
			city:      strings.ToLower(station.City),
			brand:     strings.ToLower(station.Brand),
		}
	}

	switch mode {
	case SortByPriceAsc:
		slices.SortStableFunc(items, func(a, b keyed) int { return compareAverage(a, b, false) })
	case SortByPriceDesc:
		slices.SortStableFunc(items, func(a, b keyed) int { return compareAverage(a, b, true) })
	case SortByCityName:
		slices.SortStableFunc(items, func(a, b keyed) int { return cmp.Compare(a.city, b.city) })
	case SortByBrandName:
		slices.SortStableFunc(items, func(a, b keyed) int { return cmp.Compare(a.brand, b.brand) })
	default:
		slices.SortStableFunc(items, compareByDate)
	}

	for i, item := range items {
		stations[i] = item.station
	}
}

// compareByDate orders by latest price update (newest first, unknown last),
// then case-insensitive city, then address.
func compareByDate(a, b keyed) int {
	switch {
	case a.hasLatest && !b.hasLatest:
		return -1
	case !a.hasLatest && b.hasLatest:
		return 1
	case a.hasLatest && b.hasLatest:
		if c := b.latest.Compare(a.latest); c != 0 {
			return c
		}
	}

	if c := cmp.Compare(a.city, b.city); c != 0 {
		return c
	}
	return cmp.Compare(a.station.Address, b.station.Address)
}

// stations without any price go last in both directions
func compareAverage(a, b keyed, descending bool) int {
	aNone, bNone := math.IsInf(a.average, 1), math.IsInf(b.average, 1)
	switch {
	case aNone && bNone:
		return 0
	case aNone:
		return 1
	case bNone:
		return -1
	}

	if descending {
		return cmp.Compare(b.average, a.average)
	}
	return cmp.Compare(a.average, b.average)
}
