package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Brand is a canonical station brand together with the upper-case substrings
// that identify it inside a free-text address.
type Brand struct {
	Name     string
	Variants []string
}

func FromCSV(record, headers []string) (*Brand, error) {
	if len(record) < 2 {
		return nil, errors.Newf("expected 2 columns, got %d", len(record))
	}

	brand := &Brand{
		Name: strings.TrimSpace(record[0]),
	}
	for _, variant := range strings.Split(record[1], "|") {
		if variant = strings.TrimSpace(variant); variant != "" {
			brand.Variants = append(brand.Variants, strings.ToUpper(variant))
		}
	}

	if brand.Name == "" || len(brand.Variants) == 0 {
		return nil, errors.Newf("brand record %q has no name or variants", record)
	}
	return brand, nil
}
