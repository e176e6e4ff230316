package search

import (
	"slices"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

const (
	HoursAlwaysOpen = "24h"
	HoursOpen       = "ouvert"
)

type Filter struct {
	Category  string
	Hours     string
	FuelTypes []string
	Sort      string
}

func (f Filter) IsDefault() bool {
	return f.Category == "" && f.Hours == "" && len(f.FuelTypes) == 0 && (f.Sort == "" || f.Sort == DefaultSortOrder)
}

// FilterStations applies the category, hours and fuel filters in that order
// and sorts the survivors. The input slice is left untouched.
func FilterStations(stations []*models.Station, f Filter) []*models.Station {
	filtered := slices.Clone(stations)

	if category, ok := parseCategory(f.Category); ok {
		filtered = slices.DeleteFunc(filtered, func(s *models.Station) bool {
			return s.Category != category
		})
	}

	switch f.Hours {
	case HoursAlwaysOpen:
		filtered = slices.DeleteFunc(filtered, func(s *models.Station) bool {
			return !s.Open24h
		})
	case HoursOpen:
		filtered = slices.DeleteFunc(filtered, func(s *models.Station) bool {
			return len(s.OpeningHours) == 0 && !s.Open24h
		})
	}

	if len(f.FuelTypes) > 0 {
		filtered = slices.DeleteFunc(filtered, func(s *models.Station) bool {
			return !s.HasAnyFuel(f.FuelTypes)
		})
	}

	SortStations(filtered, f.Sort)
	return filtered
}

func parseCategory(value string) (models.Category, bool) {
	switch value {
	case "highway", "autoroute":
		return models.CategoryHighway, true
	case "route":
		return models.CategoryRoute, true
	}
	return "", false
}
