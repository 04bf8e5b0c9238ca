// Package http implements a frontend exposing libsodium's randombytes
// facility over HTTP. When the process was initialised with a seed, the
// served payloads are repeatable, which is the whole point: clients of a
// test or simulation cluster observe identical sequences.
package http

import (
	"io"
	"sync"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/sot-tech/nacre/frontend"
	"github.com/sot-tech/nacre/pkg/bytepool"
	"github.com/sot-tech/nacre/pkg/conf"
	"github.com/sot-tech/nacre/pkg/log"
	"github.com/sot-tech/nacre/pkg/stop"
	"github.com/sot-tech/nacre/sodium"
)

// Name - registered name of the frontend
const Name = "http"

var logger = log.NewLogger("frontend/http")

func init() {
	frontend.RegisterBuilder(Name, NewFrontend)
}

// Config represents all configurable options for an HTTP frontend
type Config struct {
	frontend.ListenOptions
	IdleTimeout         time.Duration `cfg:"idle_timeout"`
	EnableKeepAlive     bool          `cfg:"enable_keepalive"`
	EnableRequestTiming bool          `cfg:"enable_request_timing"`
	MaxBytes            int           `cfg:"max_bytes"`
	RandomRoutes        []string      `cfg:"random_routes"`
	Uint32Routes        []string      `cfg:"uint32_routes"`
	StatusRoutes        []string      `cfg:"status_routes"`
	PingRoutes          []string      `cfg:"ping_routes"`
	Auth                AuthConfig    `cfg:"auth"`
}

const (
	defaultIdleTimeout = 30 * time.Second
	defaultMaxBytes    = 1 << 20
	defaultRandomRoute = "/random/{count}"
	defaultUint32Route = "/uint32"
	defaultStatusRoute = "/status"
)

// Validate sanity checks values set in a config and returns a new config with
// default values replacing anything that is invalid.
func (cfg Config) Validate() (validCfg Config) {
	validCfg = cfg
	validCfg.ListenOptions = cfg.ListenOptions.Validate(logger)
	if cfg.IdleTimeout <= 0 {
		validCfg.IdleTimeout = defaultIdleTimeout
		if cfg.EnableKeepAlive {
			// If keepalive is disabled, this configuration isn't used anyway.
			logger.Warn().
				Str("name", "IdleTimeout").
				Dur("provided", cfg.IdleTimeout).
				Dur("default", validCfg.IdleTimeout).
				Msg("falling back to default configuration")
		}
	}
	if cfg.MaxBytes <= 0 {
		validCfg.MaxBytes = defaultMaxBytes
		logger.Warn().
			Str("name", "MaxBytes").
			Int("provided", cfg.MaxBytes).
			Int("default", validCfg.MaxBytes).
			Msg("falling back to default configuration")
	}
	if len(cfg.RandomRoutes) == 0 {
		validCfg.RandomRoutes = []string{defaultRandomRoute}
	}
	if len(cfg.Uint32Routes) == 0 {
		validCfg.Uint32Routes = []string{defaultUint32Route}
	}
	if len(cfg.StatusRoutes) == 0 {
		validCfg.StatusRoutes = []string{defaultStatusRoute}
	}
	return
}

// httpServer wraps fasthttp.Server into io.Closer with graceful shutdown
type httpServer struct {
	*fasthttp.Server
}

func (s httpServer) Close() (err error) {
	if s.Server != nil {
		err = s.Shutdown()
	}
	return
}

type httpFE struct {
	servers        []httpServer
	pool           *bytepool.ByteBufferPool
	maxBytes       int
	collectTimings bool
	onceCloser     sync.Once
}

// NewFrontend builds and starts HTTP frontend from provided configuration
func NewFrontend(c conf.MapConfig) (frontend.Frontend, error) {
	var cfg Config
	var err error
	if err = c.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg = cfg.Validate()

	if !sodium.Initialized() {
		return nil, sodium.ErrNotInitialized
	}

	f := &httpFE{
		servers:        make([]httpServer, cfg.Workers),
		pool:           bytepool.NewBufferPool(),
		maxBytes:       cfg.MaxBytes,
		collectTimings: cfg.EnableRequestTiming,
	}

	r := router.New()
	for _, route := range cfg.RandomRoutes {
		r.GET(route, f.randomRoute)
	}
	for _, route := range cfg.Uint32Routes {
		r.GET(route, f.uint32Route)
	}
	for _, route := range cfg.StatusRoutes {
		r.GET(route, f.statusRoute)
	}
	for _, route := range cfg.PingRoutes {
		r.GET(route, f.ping)
		r.HEAD(route, f.ping)
	}

	handler := r.Handler
	if !cfg.Auth.empty() {
		var a *authorizer
		if a, err = newAuthorizer(cfg.Auth); err != nil {
			return nil, err
		}
		handler = a.wrap(handler, cfg.PingRoutes)
	}

	for i := range f.servers {
		f.servers[i] = httpServer{
			&fasthttp.Server{
				Handler:          handler,
				Name:             "nacre",
				ReadTimeout:      cfg.ReadTimeout,
				WriteTimeout:     cfg.WriteTimeout,
				IdleTimeout:      cfg.IdleTimeout,
				DisableKeepalive: !cfg.EnableKeepAlive,
				CloseOnShutdown:  true,
			},
		}
		go runServer(f.servers[i], &cfg)
	}

	return f, nil
}

func runServer(s httpServer, cfg *Config) {
	ln, err := cfg.ListenTCP()
	if err == nil {
		// Serve returns nil after graceful Shutdown
		err = s.Serve(ln)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// Stop provides a thread-safe way to gracefully shut down a currently running Frontend.
func (f *httpFE) Stop() stop.Result {
	c := make(stop.Channel)
	go func() {
		c.Done(f.close())
	}()
	return c.Result()
}

func (f *httpFE) close() (err error) {
	f.onceCloser.Do(func() {
		cls := make([]io.Closer, len(f.servers))
		for i, s := range f.servers {
			cls[i] = s
		}
		err = frontend.CloseGroup(cls)
	})

	return
}
