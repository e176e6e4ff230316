package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

const (
	FeedTimestampLayout    = "2006-01-02 15:04:05"
	DisplayTimestampLayout = "02/01/2006 à 15:04"

	NotProvided       = "Non renseigné"
	HoursUnavailable  = "Horaires non disponibles"
	AlwaysOpenLabel   = "Automate 24h/24"
	maxHoursTextDays  = 3
	hoursTextEllipsis = "..."
)

type Category string

const (
	CategoryRoute   Category = "route"
	CategoryHighway Category = "highway"
)

// CategoryFromCode maps the feed "pop" attribute: A is a motorway station, everything else is a road one.
func CategoryFromCode(code string) Category {
	if strings.EqualFold(strings.TrimSpace(code), "A") {
		return CategoryHighway
	}
	return CategoryRoute
}

func (c Category) Label() string {
	if c == CategoryHighway {
		return "Autoroute"
	}
	return "Route"
}

type Price struct {
	FuelName  string  `json:"fuel_name"`
	Amount    float64 `json:"amount"`
	UpdatedAt string  `json:"updated_at"`
}

// Timestamp parses UpdatedAt; unparseable or empty values are reported as unknown.
func (p Price) Timestamp() (time.Time, bool) {
	if p.UpdatedAt == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(FeedTimestampLayout, p.UpdatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// UpdatedAtText is empty when the feed gave no date.
func (p Price) UpdatedAtText() string {
	if p.UpdatedAt == "" {
		return ""
	}
	if ts, ok := p.Timestamp(); ok {
		return ts.Format(DisplayTimestampLayout)
	}
	return p.UpdatedAt
}

type Interval struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type DayHours struct {
	Closed    bool       `json:"closed"`
	Intervals []Interval `json:"intervals"`
}

// Station is shared between the dataset snapshot, the search cache and request
// handlers, so it must not be modified once the feed parser has built it.
type Station struct {
	ID           string              `json:"id"`
	Latitude     string              `json:"latitude"`
	Longitude    string              `json:"longitude"`
	PostalCode   string              `json:"postal_code"`
	Category     Category            `json:"category"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	Brand        string              `json:"brand"`
	Open24h      bool                `json:"open_24h"`
	Prices       map[string]Price    `json:"prices"`
	Services     []string            `json:"services"`
	OpeningHours map[string]DayHours `json:"opening_hours"`
}

// LatestUpdate returns the most recent parseable price timestamp.
func (s *Station) LatestUpdate() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, price := range s.Prices {
		ts, ok := price.Timestamp()
		if !ok {
			continue
		}
		if !found || ts.After(latest) {
			latest = ts
			found = true
		}
	}
	return latest, found
}

func (s *Station) LastUpdateText() string {
	if latest, ok := s.LatestUpdate(); ok {
		return latest.Format(DisplayTimestampLayout)
	}
	return NotProvided
}

// AveragePrice is +Inf for a station without prices so it sorts after every priced one.
func (s *Station) AveragePrice() float64 {
	if len(s.Prices) == 0 {
		return math.Inf(1)
	}
	sum := 0.0
	for _, price := range s.Prices {
		sum += price.Amount
	}
	return sum / float64(len(s.Prices))
}

func (s *Station) HasAnyFuel(fuelNames []string) bool {
	for _, name := range fuelNames {
		if _, ok := s.Prices[name]; ok {
			return true
		}
	}
	return false
}

func (s *Station) HoursText() string {
	if s.Open24h {
		return AlwaysOpenLabel
	}

	openDays := make([]string, 0, len(s.OpeningHours))
	for _, day := range s.orderedDays() {
		hours := s.OpeningHours[day]
		if hours.Closed || len(hours.Intervals) == 0 {
			continue
		}
		first := hours.Intervals[0]
		openDays = append(openDays, day+": "+first.Open+"-"+first.Close)
	}

	if len(openDays) == 0 {
		return HoursUnavailable
	}
	if len(openDays) > maxHoursTextDays {
		return strings.Join(openDays[:maxHoursTextDays], "; ") + hoursTextEllipsis
	}
	return strings.Join(openDays, "; ")
}

var weekdays = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

// orderedDays lists known weekdays first (Monday..Sunday), then any other names alphabetically.
func (s *Station) orderedDays() []string {
	days := make([]string, 0, len(s.OpeningHours))
	known := make(map[string]bool, len(weekdays))
	for _, day := range weekdays {
		known[day] = true
		if _, ok := s.OpeningHours[day]; ok {
			days = append(days, day)
		}
	}

	var others []string
	for day := range s.OpeningHours {
		if !known[day] {
			others = append(others, day)
		}
	}
	sort.Strings(others)
	return append(days, others...)
}
