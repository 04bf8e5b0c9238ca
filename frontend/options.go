package frontend

import (
	"net"
	"time"

	"github.com/libp2p/go-reuseport"

	"github.com/sot-tech/nacre/pkg/log"
)

// Default listen configuration constants.
const (
	defaultAddr         = ":8880"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

// ListenOptions is the base configuration of a single listening socket.
//
// If ReusePort is true, the socket is created with SO_REUSEPORT set, so
// several instances may share one address.
type ListenOptions struct {
	Addr         string        `cfg:"addr"`
	ReusePort    bool          `cfg:"reuse_port"`
	Workers      int           `cfg:"workers"`
	ReadTimeout  time.Duration `cfg:"read_timeout"`
	WriteTimeout time.Duration `cfg:"write_timeout"`
}

// Validate sanity checks values set in a config and returns a new config with
// default values replacing anything that is invalid.
func (lo ListenOptions) Validate(logger *log.Logger) ListenOptions {
	valid := lo
	if len(lo.Addr) == 0 {
		valid.Addr = defaultAddr
		logger.Warn().
			Str("name", "Addr").
			Str("provided", lo.Addr).
			Str("default", valid.Addr).
			Msg("falling back to default configuration")
	}
	if lo.Workers < 1 {
		valid.Workers = 1
	} else if lo.Workers > 1 && !lo.ReusePort {
		// several workers can bind one address only with SO_REUSEPORT
		valid.Workers = 1
		logger.Warn().
			Str("name", "Workers").
			Int("provided", lo.Workers).
			Int("default", valid.Workers).
			Msg("falling back to default configuration")
	}
	if lo.ReadTimeout <= 0 {
		valid.ReadTimeout = defaultReadTimeout
		logger.Warn().
			Str("name", "ReadTimeout").
			Dur("provided", lo.ReadTimeout).
			Dur("default", valid.ReadTimeout).
			Msg("falling back to default configuration")
	}
	if lo.WriteTimeout <= 0 {
		valid.WriteTimeout = defaultWriteTimeout
		logger.Warn().
			Str("name", "WriteTimeout").
			Dur("provided", lo.WriteTimeout).
			Dur("default", valid.WriteTimeout).
			Msg("falling back to default configuration")
	}
	return valid
}

// ListenTCP creates listening TCP socket with configured address,
// honouring ReusePort option.
func (lo ListenOptions) ListenTCP() (net.Listener, error) {
	if lo.ReusePort {
		return reuseport.Listen("tcp", lo.Addr)
	}
	return net.Listen("tcp", lo.Addr)
}
