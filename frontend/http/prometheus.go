package http

import (
	"net/netip"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sot-tech/nacre/pkg/metrics"
	"github.com/valyala/fasthttp"
)

func init() {
	// Register the metrics.
	prometheus.MustRegister(
		promResponseDurationMilliseconds,
		promServedBytes,
	)
}

var (
	// promResponseDurationMilliseconds is a histogram used by the frontend
	// to record the durations of request handling.
	promResponseDurationMilliseconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nacre_http_response_duration_milliseconds",
			Help:    "The duration of time it takes to receive and write a response to an API request",
			Buckets: prometheus.ExponentialBuckets(9.375, 2, 10),
		},
		[]string{"action", "address_family", "error"},
	)

	// promServedBytes is a counter of random payload bytes written out.
	promServedBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nacre_http_served_random_bytes_total",
		Help: "The total number of random payload bytes served",
	})
)

// recordResponseDuration records the duration of time to respond to a request
// in milliseconds.
func recordResponseDuration(action string, ctx *fasthttp.RequestCtx, err error, duration time.Duration) {
	var errString string
	if err != nil {
		errString = err.Error()
	}

	var af string
	if addr, ok := ctx.RemoteAddr().(interface{ AddrPort() netip.AddrPort }); ok {
		af = metrics.AddressFamily(addr.AddrPort().Addr())
	} else {
		af = metrics.AddressFamily(netip.Addr{})
	}

	promResponseDurationMilliseconds.
		WithLabelValues(action, af, errString).
		Observe(float64(duration.Nanoseconds()) / float64(time.Millisecond))
}
