// Command splinetool is a small CLI front end over the spline/splinediff/
// splineio packages: evaluate, sample, range-query, diff, check
// redundancy, and break down splines persisted in the CBOR record layout
// (spec §6).
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("splinetool failed")
		os.Exit(1)
	}
}
