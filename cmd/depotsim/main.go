// Command depotsim drives a registry through a population of moving, expiring agents.
//
// Configuration comes from the environment:
//
//	DEPOT_ENTITIES    population kept alive every tick
//	DEPOT_TICKS       number of ticks to run
//	DEPOT_LIFETIME    upper bound on an agent's lifetime in ticks
//	DEPOT_NAMED       agents tracked by name
//	DEPOT_SEED        rng seed
//	DEPOT_PRETTY_LOG  human readable logs on stderr
//	DEPOT_LOG_LEVEL   zerolog level name
//	DEPOT_PROFILE     "cpu" or "mem" to write a pprof profile to the working directory
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, true))
		os.Exit(1)
	}
}

func newLogger(cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "parsing log level %q", cfg.LogLevel)
	}
	if cfg.PrettyLog {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger(), nil
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger(), nil
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	sim, err := newSimulation(cfg, logger)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := sim.Run(cfg.Ticks); err != nil {
		return err
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("run complete")
	sim.report()
	return nil
}
