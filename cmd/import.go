package cmd

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

// Import performs a single refresh and writes the API projection of every
// station as JSON to output, or to stdout when output is "-".
func Import(output string) error {

	app, err := bootstrap()
	if err != nil {
		return err
	}

	if !app.refresher.RefreshOnce(context.Background()) {
		return errors.New("failed to load station data")
	}

	stations := app.store.Stations()
	log.Info().Msgf("imported %d stations", len(stations))

	var w io.Writer = os.Stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", output)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Error().Err(err).Msgf("failed to close %s", output)
			}
		}()
		w = f
	}

	return writeStations(w, stations)
}

func writeStations(w io.Writer, stations []*models.Station) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(models.ToAPI(stations)); err != nil {
		return errors.Wrap(err, "failed to write stations")
	}
	return nil
}
