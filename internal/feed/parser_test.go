package feed

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/prix-carburants-api/internal/brands"
	"github.com/rm-hull/prix-carburants-api/internal/models"
)

const sampleFeed = `<?xml version="1.0" encoding="ISO-8859-1" standalone="yes"?>
<pdv_liste>
  <pdv id="1000001" latitude="4620114" longitude="519791" cp="01000" pop="R">
    <adresse>596 AVENUE DE TREVOUX TOTAL ACCESS</adresse>
    <ville>SAINT-DENIS-LèS-BOURG</ville>
    <horaires automate-24-24="1">
      <jour id="1" nom="Lundi" ferme="">
        <horaire ouverture="06.00" fermeture="20.00"/>
        <horaire ouverture="21.00" fermeture=""/>
      </jour>
      <jour id="7" nom="Dimanche" ferme="1"/>
      <jour id="8" ferme=""/>
    </horaires>
    <services>
      <service>Station de gonflage</service>
      <service>   </service>
      <service> Lavage automatique </service>
    </services>
    <prix nom="Gazole" id="1" maj="2024-01-01 10:00:00" valeur="1.80"/>
    <prix nom="SP95" id="2" maj="2024-01-02 11:30:00" valeur="abc"/>
    <prix nom="E10" id="5" maj="" valeur="1.75"/>
    <prix nom="" id="6" maj="2024-01-02 11:30:00" valeur="1.70"/>
    <prix nom="GPLc" id="4" maj="2024-01-02 11:30:00"/>
  </pdv>
  <pdv id="1000002" latitude="4621" longitude="5197" cp="69001" pop="A">
    <adresse>AIRE DE LA GRAND'CROIX</adresse>
    <ville>Lyon</ville>
  </pdv>
  <pdv id="1000003" cp="75001" pop="R">
    <adresse>1 rue sans ville</adresse>
  </pdv>
  <pdv cp="75002" pop="R">
    <adresse>no id here</adresse>
    <ville>Paris</ville>
  </pdv>
  <pdv id="1000002" cp="69002" pop="R">
    <ville>Lyon</ville>
  </pdv>
  <pdv id="1000004" cp="75003" pop="R">
    <adresse>Chez Martin garage</adresse>
    <ville>  Paris  </ville>
  </pdv>
</pdv_liste>`

func newTestParser(t *testing.T) *Parser {
	extractor, err := brands.NewExtractor()
	require.NoError(t, err)
	return NewParser(extractor)
}

func TestParse(t *testing.T) {
	parser := newTestParser(t)

	stations, err := parser.Parse(sampleFeed)
	require.NoError(t, err)
	require.Len(t, stations, 5, "every element with a city is kept")

	t.Run("document order is kept", func(t *testing.T) {
		assert.Equal(t, "1000001", stations[0].ID)
		assert.Equal(t, "1000002", stations[1].ID)
		assert.Equal(t, "", stations[2].ID)
		assert.Equal(t, "1000002", stations[3].ID)
		assert.Equal(t, "1000004", stations[4].ID)
	})

	t.Run("missing attributes read as empty", func(t *testing.T) {
		s := stations[2]
		assert.Equal(t, "Paris", s.City)
		assert.Equal(t, "no id here", s.Address)
		assert.Empty(t, s.Latitude)
		assert.Empty(t, s.Longitude)
		assert.Equal(t, "75002", s.PostalCode)
	})

	t.Run("duplicate ids are kept", func(t *testing.T) {
		assert.Equal(t, "69001", stations[1].PostalCode)
		assert.Equal(t, "69002", stations[3].PostalCode)
		assert.Empty(t, stations[3].Address)
	})

	t.Run("attributes and text", func(t *testing.T) {
		s := stations[0]
		assert.Equal(t, "4620114", s.Latitude)
		assert.Equal(t, "519791", s.Longitude)
		assert.Equal(t, "01000", s.PostalCode)
		assert.Equal(t, models.CategoryRoute, s.Category)
		assert.Equal(t, "596 AVENUE DE TREVOUX TOTAL ACCESS", s.Address)
		assert.Equal(t, "SAINT-DENIS-LèS-BOURG", s.City)
		assert.Equal(t, "TOTAL", s.Brand)
		assert.Equal(t, models.CategoryHighway, stations[1].Category)
		assert.Equal(t, "Paris", stations[4].City)
		assert.Equal(t, "Martin", stations[4].Brand)
	})

	t.Run("prices", func(t *testing.T) {
		prices := stations[0].Prices
		require.Len(t, prices, 2)
		assert.Equal(t, models.Price{FuelName: "Gazole", Amount: 1.80, UpdatedAt: "2024-01-01 10:00:00"}, prices["Gazole"])
		assert.Equal(t, 1.75, prices["E10"].Amount)
		assert.Empty(t, prices["E10"].UpdatedAt)
		assert.NotContains(t, prices, "SP95")
		assert.NotContains(t, prices, "GPLc")
		assert.Empty(t, stations[1].Prices)
	})

	t.Run("services", func(t *testing.T) {
		assert.Equal(t, []string{"Station de gonflage", "Lavage automatique"}, stations[0].Services)
		assert.Empty(t, stations[1].Services)
	})

	t.Run("opening hours", func(t *testing.T) {
		s := stations[0]
		assert.True(t, s.Open24h)
		require.Len(t, s.OpeningHours, 2)
		assert.False(t, s.OpeningHours["Lundi"].Closed)
		assert.Equal(t, []models.Interval{{Open: "06.00", Close: "20.00"}}, s.OpeningHours["Lundi"].Intervals)
		assert.True(t, s.OpeningHours["Dimanche"].Closed)
		assert.Empty(t, s.OpeningHours["Dimanche"].Intervals)

		assert.False(t, stations[1].Open24h)
		assert.Empty(t, stations[1].OpeningHours)
	})
}

func TestParseMalformed(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name string
		xml  string
	}{
		{"empty document", ""},
		{"unclosed element", `<pdv_liste><pdv id="1"><ville>Paris</ville></pdv_liste>`},
		{"not xml", "PK\x03\x04 garbage"},
		{"broken trailer", `<pdv_liste></pdv_liste><oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stations, err := parser.Parse(tt.xml)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedFeed))
			assert.Nil(t, stations)
		})
	}
}

func TestParseStationWithoutAttributes(t *testing.T) {
	stations, err := newTestParser(t).Parse(`<pdv_liste>
  <pdv><ville>Paris</ville></pdv>
  <pdv id="2"><ville>Paris</ville></pdv>
</pdv_liste>`)
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "", stations[0].ID)
	assert.Equal(t, models.CategoryRoute, stations[0].Category)
	assert.Equal(t, "2", stations[1].ID)
}

func TestParseEmptyList(t *testing.T) {
	stations, err := newTestParser(t).Parse(`<pdv_liste></pdv_liste>`)
	require.NoError(t, err)
	assert.Empty(t, stations)
}
