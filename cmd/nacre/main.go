// Package main contains entry point logic of nacre server
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	l "github.com/sot-tech/nacre/pkg/log"
)

const (
	logOutArg    = "logOut"
	logLevelArg  = "logLevel"
	logPrettyArg = "logPretty"
	logColorsArg = "logColored"
	configArg    = "config"
	seedArg      = "seed"
	quickArg     = "quick"
)

func main() {
	var err error

	logOut := flag.String(logOutArg, "stderr", "output for logging, might be 'stderr', 'stdout' or file path")
	logLevel := flag.String(logLevelArg, "warn", "logging level: trace, debug, info, warn, error, fatal, panic")
	logPretty := flag.Bool(logPrettyArg, false, "enable log pretty print. used only if 'logOut' set to 'stdout' or 'stderr'. if not set, log outputs json")
	logColored := flag.Bool(logColorsArg, runtime.GOOS != "windows", "enable log coloring. used only if set 'logPretty'")
	configPath := flag.String(configArg, "/etc/nacre.yaml", "location of configuration file")
	seed := flag.String(seedArg, "", "overrides 'seed' from configuration file: empty for the default secure source, 32 hex characters for an exact 128-bit seed, anything else is treated as a passphrase")
	quickStart := flag.Bool(quickArg, false, "start server with default configuration (http frontend on the default address, no auth)")
	flag.Parse()

	if err = l.ConfigureLogger(*logOut, *logLevel, *logPretty, *logColored); err != nil {
		log.Fatal("unable to configure logger: ", err)
	}

	var cfg *Config
	if *quickStart {
		cfg = QuickConfig
	} else {
		cfg, err = ParseConfigFile(*configPath)
		if err != nil {
			l.Fatal().Err(err).Msg("unable to read config file")
		}
	}
	if len(*seed) > 0 {
		cfg.Seed = *seed
	}

	var s Server
	if err = s.Run(cfg); err != nil {
		l.Fatal().Err(err).Msg("unable to start server")
	}
	defer s.Dispose()

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	reload := makeReloadChan()
	for {
		select {
		case <-reload:
			s.Reseed()
		case <-ch:
			return
		}
	}
}
