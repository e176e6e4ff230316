package models

import (
	"sort"
	"time"
)

type SearchResult struct {
	Stations []*Station
	Count    int
	City     string
}

type PriceView struct {
	Name    string  `json:"nom"`
	Value   float64 `json:"valeur"`
	Updated string  `json:"maj"`
}

type StationView struct {
	ID          string      `json:"id"`
	Address     string      `json:"adresse"`
	City        string      `json:"ville"`
	PostalCode  string      `json:"cp"`
	Brand       string      `json:"marque"`
	Type        string      `json:"type"`
	Open24h     bool        `json:"automate_24h"`
	Prices      []PriceView `json:"prix"`
	Services    []string    `json:"services"`
	Hours       string      `json:"horaires"`
	Latitude    string      `json:"latitude"`
	Longitude   string      `json:"longitude"`
	LastUpdated string      `json:"derniere_maj"`
}

// ToAPI projects a station into the public JSON shape. Prices are ordered by fuel name.
func (s *Station) ToAPI() StationView {
	names := make([]string, 0, len(s.Prices))
	for name := range s.Prices {
		names = append(names, name)
	}
	sort.Strings(names)

	prices := make([]PriceView, 0, len(names))
	for _, name := range names {
		price := s.Prices[name]
		prices = append(prices, PriceView{
			Name:    price.FuelName,
			Value:   price.Amount,
			Updated: price.UpdatedAtText(),
		})
	}

	services := s.Services
	if services == nil {
		services = []string{}
	}

	return StationView{
		ID:          s.ID,
		Address:     s.Address,
		City:        s.City,
		PostalCode:  s.PostalCode,
		Brand:       s.Brand,
		Type:        s.Category.Label(),
		Open24h:     s.Open24h,
		Prices:      prices,
		Services:    services,
		Hours:       s.HoursText(),
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		LastUpdated: s.LastUpdateText(),
	}
}

func ToAPI(stations []*Station) []StationView {
	views := make([]StationView, 0, len(stations))
	for _, station := range stations {
		views = append(views, station.ToAPI())
	}
	return views
}

type FiltersApplied struct {
	Category  string   `json:"type_station"`
	Hours     string   `json:"horaires"`
	FuelTypes []string `json:"carburants"`
	Sort      string   `json:"tri"`
}

type SearchStatistics struct {
	CheapestStations  map[string][]string       `json:"cheapest_stations"`
	LowestPrice       map[string]float64        `json:"lowest_price"`
	AveragePrice      map[string]float64        `json:"average_price"`
	HighestPrice      map[string]float64        `json:"highest_price"`
	PriceDistribution map[string]map[string]int `json:"price_distribution"`
	StandardDeviation map[string]float64        `json:"standard_deviation"`
	BrandDistribution map[string]int            `json:"brand_distribution"`
}

type SearchResponse struct {
	Stations       []StationView     `json:"stations"`
	Count          int               `json:"count"`
	City           string            `json:"ville"`
	FiltersApplied FiltersApplied    `json:"filters_applied"`
	Statistics     *SearchStatistics `json:"statistiques,omitempty"`
	LastUpdated    *time.Time        `json:"last_updated,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Query       string   `json:"query"`
	Count       int      `json:"count"`
}
