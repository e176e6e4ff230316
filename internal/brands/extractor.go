package brands

import (
	_ "embed"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/prix-carburants-api/internal/models"
)

const Fallback = "Station-service"

//go:embed brands.csv
var brandsCSV string

var (
	markers      = []string{"STATION", "GARAGE", "RELAIS", "SHOP", "MARKET"}
	streetTypes  = map[string]bool{"ROUTE": true, "RUE": true, "AVENUE": true, "PLACE": true, "BOULEVARD": true}
	minNameRunes = 3
)

func GetBrandsList() ([]*models.Brand, error) {
	arr := make([]*models.Brand, 0, 32)
	reader := strings.NewReader(brandsCSV)

	seen := make(map[string]bool)
	for record := range ParseCSV(reader, false, models.FromCSV) {
		if record.Error != nil {
			return nil, errors.Wrap(record.Error, "failed to load brand table")
		}
		if seen[record.Value.Name] {
			return nil, errors.Newf("duplicate key detected: %s", record.Value.Name)
		}
		seen[record.Value.Name] = true
		arr = append(arr, record.Value)
	}

	return arr, nil
}

// Extractor guesses the commercial brand of a station from its address. The
// brand table is scanned in order and the first matching variant wins.
type Extractor struct {
	brands []*models.Brand
}

func NewExtractor() (*Extractor, error) {
	list, err := GetBrandsList()
	if err != nil {
		return nil, err
	}
	return NewExtractorFromTable(list), nil
}

func NewExtractorFromTable(table []*models.Brand) *Extractor {
	return &Extractor{brands: table}
}

// Extract never fails and never returns an empty string.
func (e *Extractor) Extract(address string) string {
	if strings.TrimSpace(address) == "" {
		return Fallback
	}

	upper := strings.ToUpper(address)
	for _, brand := range e.brands {
		for _, variant := range brand.Variants {
			if strings.Contains(upper, variant) {
				return brand.Name
			}
		}
	}

	words := strings.Fields(address)
	if name, ok := fromMarkers(words); ok {
		return name
	}

	first := words[0]
	if utf8.RuneCountInString(first) > minNameRunes && !streetTypes[strings.ToUpper(first)] {
		return titleCase(first)
	}

	return Fallback
}

// fromMarkers looks for a word such as GARAGE and names the station after the word before it.
func fromMarkers(words []string) (string, bool) {
	for i, word := range words {
		upper := strings.ToUpper(word)
		for _, marker := range markers {
			if !strings.Contains(upper, marker) {
				continue
			}
			if i > 0 && utf8.RuneCountInString(words[i-1]) > 2 {
				return titleCase(words[i-1]), true
			}
			return titleCase(word), true
		}
	}
	return "", false
}

// titleCase upper-cases every letter that follows a non-letter and lower-cases
// the rest, so elisions and digit runs start new words: L'ESCALE is L'Escale,
// 8A8B stays 8A8B.
func titleCase(word string) string {
	var sb strings.Builder
	sb.Grow(len(word))
	prevLetter := false
	for _, r := range word {
		switch {
		case !unicode.IsLetter(r):
			sb.WriteRune(r)
			prevLetter = false
		case prevLetter:
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(unicode.ToTitle(r))
			prevLetter = true
		}
	}
	return sb.String()
}
