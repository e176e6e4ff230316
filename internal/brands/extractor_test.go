package brands

import (
	"strings"
	"testing"

	"github.com/rm-hull/prix-carburants-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBrandsList(t *testing.T) {
	list, err := GetBrandsList()
	require.NoError(t, err)
	require.Len(t, list, 26)

	assert.Equal(t, "TOTAL", list[0].Name)
	assert.Equal(t, []string{"TOTAL", "TOTALENERGIES"}, list[0].Variants)
	assert.Equal(t, "FRANPRIX", list[len(list)-1].Name)

	// STATION must stay ahead of the generic markers lookup
	names := make([]string, 0, len(list))
	for _, b := range list {
		names = append(names, b.Name)
	}
	assert.Less(t, indexOf(names, "CASINO"), indexOf(names, "PETIT CASINO"))
}

func TestParseCSV(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		input := "name,variants\nFOO,FOO|F00\n"
		var got []*models.Brand
		for record := range ParseCSV(strings.NewReader(input), true, models.FromCSV) {
			require.NoError(t, record.Error)
			got = append(got, record.Value)
		}
		require.Len(t, got, 1)
		assert.Equal(t, []string{"FOO", "F00"}, got[0].Variants)
	})

	t.Run("bad record stops iteration", func(t *testing.T) {
		input := "FOO,FOO\nBAR\nBAZ,BAZ\n"
		var errs, values int
		for record := range ParseCSV(strings.NewReader(input), false, models.FromCSV) {
			if record.Error != nil {
				errs++
				assert.Equal(t, 2, record.LineNum)
				continue
			}
			values++
		}
		assert.Equal(t, 1, values)
		assert.Equal(t, 1, errs)
	})
}

func TestExtract(t *testing.T) {
	extractor, err := NewExtractor()
	require.NoError(t, err)

	tests := []struct {
		name     string
		address  string
		expected string
	}{
		{"empty address", "", Fallback},
		{"whitespace address", "   ", Fallback},
		{"brand anywhere in text", "12 rue du Centre, relais total access", "TOTAL"},
		{"variant maps to canonical name", "Centre commercial E.Leclerc", "LECLERC"},
		{"accented variant", "ZAC Intermarché sud", "INTERMARCHE"},
		{"table order wins over later entries", "Petit Casino de la gare", "CASINO"},
		{"super u before hyper u", "HYPER U SUPER U", "SUPER U"},
		{"marker uses preceding word", "Chez Dupont garage", "Dupont"},
		{"marker with short preceding word", "le garage", "Garage"},
		{"marker as first word", "GARAGE du centre", "Garage"},
		{"first word fallback", "ZONE ARTISANALE nord", "Zone"},
		{"street type is not a brand", "AVENUE DES LILAS", Fallback},
		{"short first word", "12 rue des lilas", Fallback},
		{"elision before marker", "O'NEIL GARAGE", "O'Neil"},
		{"elision as first word", "L'ESCALE de la gare", "L'Escale"},
		{"digits start a new word", "8A8B GARAGE", "8A8B"},
		{"hyphenated name", "SAINT-JEAN garage", "Saint-Jean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.Extract(tt.address))
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"DUPONT":     "Dupont",
		"mcDONALD":   "Mcdonald",
		"éCOLE":      "École",
		"D'ARTAGNAN": "D'Artagnan",
		"4X4":        "4X4",
		"":           "",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, titleCase(input), input)
	}
}

func TestExtractCustomTable(t *testing.T) {
	extractor := NewExtractorFromTable([]*models.Brand{
		{Name: "SECOND", Variants: []string{"ABC"}},
		{Name: "FIRST", Variants: []string{"AB"}},
	})
	assert.Equal(t, "SECOND", extractor.Extract("xx abc yy"))
	assert.Equal(t, "FIRST", extractor.Extract("xx ab yy"))
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
