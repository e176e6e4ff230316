package feed

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

var ErrMalformedFeed = errors.New("malformed feed")

const (
	previewLength = 500
	progressEvery = 1000
)

type BrandExtractor interface {
	Extract(address string) string
}

type Parser struct {
	brands BrandExtractor
}

func NewParser(brands BrandExtractor) *Parser {
	return &Parser{brands: brands}
}

// Parse turns the feed document into stations, in document order. A syntax
// error fails the whole feed; stations without a city are dropped. Missing
// attributes read as empty strings, and stations sharing an id are all kept.
func (p *Parser) Parse(xmlText string) ([]*models.Station, error) {
	doc, err := decodeDocument(xmlText)
	if err != nil {
		log.Error().Err(err).Str("preview", preview(xmlText)).Msg("failed to parse feed xml")
		return nil, errors.Mark(errors.Wrap(err, "xml parse error"), ErrMalformedFeed)
	}

	total := len(doc.Stations)
	log.Info().Msgf("%d stations found in feed", total)

	stations := make([]*models.Station, 0, total)
	seen := make(map[string]bool, total)
	for i, element := range doc.Stations {
		if i > 0 && i%progressEvery == 0 {
			log.Debug().Msgf("processing... %d/%d (%d%%)", i, total, i*100/total)
		}

		station := p.toStation(element)
		if station.City == "" {
			continue
		}
		if station.ID != "" {
			if seen[station.ID] {
				log.Warn().Str("station_id", station.ID).Msg("duplicate station id in feed")
			}
			seen[station.ID] = true
		}
		stations = append(stations, station)
	}

	log.Info().Msgf("%d stations parsed successfully", len(stations))
	return stations, nil
}

func decodeDocument(xmlText string) (*feedDocument, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	// the text is already decoded, whatever the prolog declares
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc feedDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New("document has no root element")
		}
		return nil, err
	}

	for {
		if _, err := decoder.Token(); err != nil {
			if err == io.EOF {
				return &doc, nil
			}
			return nil, err
		}
	}
}

// toStation never fails: absent attributes and children read as empty strings.
func (p *Parser) toStation(element stationElement) *models.Station {
	station := &models.Station{
		ID:           element.ID,
		Latitude:     element.Latitude,
		Longitude:    element.Longitude,
		PostalCode:   element.PostalCode,
		Category:     models.CategoryFromCode(element.Pop),
		Address:      strings.TrimSpace(element.Address),
		City:         strings.TrimSpace(element.City),
		Prices:       parsePrices(element.ID, element.Prices),
		Services:     parseServices(element.Services),
		OpeningHours: map[string]models.DayHours{},
	}
	station.Brand = p.brands.Extract(station.Address)

	if element.Hours != nil {
		station.Open24h = element.Hours.Open24h == "1"
		station.OpeningHours = parseHours(element.Hours.Days)
	}

	return station
}

func parsePrices(stationID string, elements []priceElement) map[string]models.Price {
	prices := make(map[string]models.Price, len(elements))
	for _, element := range elements {
		if element.Name == "" || element.Value == "" {
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(element.Value), 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			log.Warn().Str("station_id", stationID).Str("fuel", element.Name).Msgf("ignoring invalid price value %q", element.Value)
			continue
		}

		prices[element.Name] = models.Price{
			FuelName:  element.Name,
			Amount:    amount,
			UpdatedAt: element.Updated,
		}
	}
	return prices
}

func parseServices(elements []string) []string {
	services := make([]string, 0, len(elements))
	for _, service := range elements {
		if service = strings.TrimSpace(service); service != "" {
			services = append(services, service)
		}
	}
	return services
}

func parseHours(days []dayElement) map[string]models.DayHours {
	hours := make(map[string]models.DayHours, len(days))
	for _, day := range days {
		if day.Name == "" {
			continue
		}

		dayHours := models.DayHours{
			Closed:    day.Closed == "1",
			Intervals: []models.Interval{},
		}
		for _, interval := range day.Intervals {
			if interval.Open != "" && interval.Close != "" {
				dayHours.Intervals = append(dayHours.Intervals, models.Interval{
					Open:  interval.Open,
					Close: interval.Close,
				})
			}
		}
		hours[day.Name] = dayHours
	}
	return hours
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}
