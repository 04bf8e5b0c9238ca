package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	// Import to register frontend.
	fh "github.com/sot-tech/nacre/frontend/http"
	"github.com/sot-tech/nacre/pkg/conf"
)

// Config represents the configuration used for Server start.
type Config struct {
	// Seed selects the randombytes implementation libsodium is
	// initialised with: empty means the default secure source,
	// 32 hexadecimal characters are decoded into an exact 128-bit seed,
	// any other string is treated as a passphrase and hashed.
	Seed        string                `yaml:"seed"`
	MetricsAddr string                `yaml:"metrics_addr"`
	Frontends   []conf.NamedMapConfig `yaml:"frontends"`
}

// QuickConfig is the simple configuration for quick start without config file.
// Includes http frontend on the default address without auth.
var QuickConfig = &Config{
	Frontends: []conf.NamedMapConfig{
		{
			Name:   fh.Name,
			Config: conf.MapConfig{},
		},
	},
}

// ParseConfigFile returns a new Config given the path to a YAML
// configuration file.
//
// It supports relative and absolute paths and environment variables.
func ParseConfigFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("no config path specified")
	}

	f, err := os.Open(os.ExpandEnv(path))
	if err == nil {
		defer f.Close()
		cfgFile := new(Config)
		err = yaml.NewDecoder(f).Decode(cfgFile)
		return cfgFile, err
	}
	return nil, err
}
