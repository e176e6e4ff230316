package feed

// feedDocument mirrors the <pdv_liste> document published by roulez-eco.fr.
type feedDocument struct {
	Stations []stationElement `xml:"pdv"`
}

type stationElement struct {
	ID         string         `xml:"id,attr"`
	Latitude   string         `xml:"latitude,attr"`
	Longitude  string         `xml:"longitude,attr"`
	PostalCode string         `xml:"cp,attr"`
	Pop        string         `xml:"pop,attr"`
	Address    string         `xml:"adresse"`
	City       string         `xml:"ville"`
	Prices     []priceElement `xml:"prix"`
	Services   []string       `xml:"services>service"`
	Hours      *hoursElement  `xml:"horaires"`
}

type priceElement struct {
	Name    string `xml:"nom,attr"`
	Value   string `xml:"valeur,attr"`
	Updated string `xml:"maj,attr"`
}

type hoursElement struct {
	Open24h string       `xml:"automate-24-24,attr"`
	Days    []dayElement `xml:"jour"`
}

type dayElement struct {
	Name      string            `xml:"nom,attr"`
	Closed    string            `xml:"ferme,attr"`
	Intervals []intervalElement `xml:"horaire"`
}

type intervalElement struct {
	Open  string `xml:"ouverture,attr"`
	Close string `xml:"fermeture,attr"`
}
