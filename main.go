package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rm-hull/prix-carburants-api/cmd"
)

func main() {
	var port int
	var debug bool
	var output string

	rootCmd := &cobra.Command{
		Use:   "prix-carburants",
		Short: "French fuel price search API, fed by the roulez-eco instantaneous feed",
	}

	apiServerCmd := &cobra.Command{
		Use:   "api-server",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Download the feed once and write every station as JSON",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Import(output)
		},
	}
	importCmd.Flags().StringVarP(&output, "output", "o", "-", "File to write to, - for stdout")

	rootCmd.AddCommand(apiServerCmd, importCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
