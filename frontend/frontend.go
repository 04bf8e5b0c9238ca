// Package frontend defines interface which should satisfy
// every network frontend
package frontend

import (
	"fmt"
	"io"
	"sync"

	"github.com/sot-tech/nacre/pkg/conf"
	"github.com/sot-tech/nacre/pkg/log"
	"github.com/sot-tech/nacre/pkg/stop"
)

var (
	logger     = log.NewLogger("frontend")
	buildersMU sync.RWMutex
	builders   = make(map[string]Builder)
)

// Builder is the function used to initialize a new Frontend
// with provided configuration.
type Builder func(conf.MapConfig) (Frontend, error)

// RegisterBuilder makes a Builder available by the provided name.
//
// If called twice with the same name, the name is blank, or if the provided
// Builder is nil, this function panics.
func RegisterBuilder(name string, b Builder) {
	if name == "" {
		panic("frontend: could not register Builder with an empty name")
	}
	if b == nil {
		panic("frontend: could not register a nil Builder")
	}

	buildersMU.Lock()
	defer buildersMU.Unlock()

	if _, dup := builders[name]; dup {
		panic("frontend: RegisterBuilder called twice for " + name)
	}

	builders[name] = b
}

// Frontend is a network server which exposes the random facility.
type Frontend interface {
	stop.Stopper
}

// ClientError represents an error that should be exposed to the client over
// the frontend protocol implementation.
type ClientError string

// Error implements the error interface for ClientError.
func (c ClientError) Error() string { return string(c) }

// NewFrontends is a utility function for initializing Frontend-s in bulk.
// Returns nil and error if frontend with name provided in config
// does not exists.
func NewFrontends(configs []conf.NamedMapConfig) (fs []Frontend, err error) {
	buildersMU.RLock()
	defer buildersMU.RUnlock()
	for _, c := range configs {
		logger.Debug().Object("frontend", c).Msg("starting frontend")
		newFrontend, ok := builders[c.Name]
		if !ok {
			err = fmt.Errorf("frontend with name '%s' does not exists", c.Name)
			break
		}
		var f Frontend
		if f, err = newFrontend(c.Config); err != nil {
			break
		}
		fs = append(fs, f)
		logger.Info().Str("name", c.Name).Msg("frontend started")
	}
	return
}

// CloseGroup closes provided closers and combines their errors.
func CloseGroup(cls []io.Closer) (err error) {
	errs := make([]error, 0, len(cls))
	for _, c := range cls {
		if c != nil {
			errs = append(errs, c.Close())
		}
	}
	for _, e := range errs {
		if e != nil {
			if err == nil {
				err = e
			} else {
				err = fmt.Errorf("%w; %w", err, e)
			}
		}
	}
	return
}
