package main

import (
	"errors"
	"fmt"

	"github.com/sot-tech/nacre/frontend"
	"github.com/sot-tech/nacre/pkg/log"
	"github.com/sot-tech/nacre/pkg/metrics"
	"github.com/sot-tech/nacre/pkg/randseed"
	"github.com/sot-tech/nacre/pkg/stop"
	"github.com/sot-tech/nacre/sodium"
)

// Server represents the state of a running instance.
type Server struct {
	seed string
	sg   *stop.Group
}

// Run begins an instance of Config.
func (r *Server) Run(cfg *Config) error {
	r.seed = cfg.Seed
	if err := initSodium(cfg.Seed); err != nil {
		return fmt.Errorf("failed to initialise libsodium: %w", err)
	}
	log.Info().
		Bool("seeded", sodium.Seeded()).
		Str("implementation", sodium.ImplementationName()).
		Str("version", sodium.Version()).
		Msg("libsodium initialised")

	r.sg = stop.NewGroup()

	if len(cfg.MetricsAddr) > 0 {
		log.Info().Str("address", cfg.MetricsAddr).Msg("starting metrics server")
		r.sg.Add(metrics.NewServer(cfg.MetricsAddr))
	} else {
		log.Info().Msg("metrics disabled because of empty address")
	}

	if len(cfg.Frontends) == 0 {
		return errors.New("no frontends configured")
	}
	fs, err := frontend.NewFrontends(cfg.Frontends)
	if err != nil {
		return fmt.Errorf("failed to configure frontends: %w", err)
	}
	for _, f := range fs {
		r.sg.Add(f)
	}
	return nil
}

// Reseed resets the seeded generator to the configured seed, so served
// sequences restart from the beginning. No-op when the instance was
// initialised with the default secure source.
func (r *Server) Reseed() {
	if !sodium.Seeded() {
		log.Warn().Msg("reseed requested, but the seeded generator is not in effect")
		return
	}
	if err := initSodium(r.seed); err != nil {
		log.Error().Err(err).Msg("failed to reseed")
		return
	}
	log.Info().Msg("generator reseeded")
}

// Dispose shuts down an instance of Server.
func (r *Server) Dispose() {
	log.Debug().Msg("stopping frontends and metrics server")
	if errs := r.sg.Stop().Wait(); len(errs) > 0 {
		log.Error().Errs("errors", errs).Msg("error occurred while shutting down frontends")
	}
	log.Close()
}

func initSodium(seed string) error {
	if len(seed) == 0 {
		return sodium.Init()
	}
	s0, s1, err := randseed.FromHex(seed)
	if err != nil {
		s0, s1 = randseed.FromString(seed)
	}
	return sodium.InitWithSeed(s0, s1)
}
