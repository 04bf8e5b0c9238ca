package http

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/sot-tech/nacre/frontend"
	"github.com/sot-tech/nacre/pkg/metrics"
	"github.com/sot-tech/nacre/sodium"
)

var (
	errInvalidCount  = frontend.ClientError("invalid count")
	errCountTooLarge = frontend.ClientError("requested count exceeds configured maximum")
	errInvalidFormat = frontend.ClientError("invalid format, expected raw, hex or base64")
)

// randomRoute responds with {count} bytes drawn from the active
// randombytes implementation.
func (f *httpFE) randomRoute(ctx *fasthttp.RequestCtx) {
	var err error
	var start time.Time
	if f.collectTimings && metrics.Enabled() {
		start = time.Now()
		defer func() {
			recordResponseDuration("random", ctx, err, time.Since(start))
		}()
	}

	qp := queryParams{ctx.QueryArgs()}
	var count int
	if count, err = parseCount(ctx, f.maxBytes); err != nil {
		WriteError(ctx, err)
		return
	}

	buf := f.pool.Get()
	defer f.pool.Put(buf)
	buf.Grow(count)
	raw := buf.AvailableBuffer()[:count]
	if err = sodium.Fill(raw); err != nil {
		WriteError(ctx, err)
		return
	}

	switch format, _ := qp.String("format"); format {
	case "", "raw":
		ctx.SetContentType("application/octet-stream")
		_, err = ctx.Write(raw)
	case "hex":
		ctx.SetContentType("text/plain; charset=utf-8")
		_, err = ctx.WriteString(hex.EncodeToString(raw))
	case "base64":
		ctx.SetContentType("text/plain; charset=utf-8")
		_, err = ctx.WriteString(base64.StdEncoding.EncodeToString(raw))
	default:
		logger.Debug().Object("params", qp).Msg("unsupported format requested")
		err = errInvalidFormat
		WriteError(ctx, err)
		return
	}
	if err == nil {
		promServedBytes.Add(float64(count))
	}
}

// uint32Route responds with a single value, uniform in [0, bound)
// if bound provided and positive.
func (f *httpFE) uint32Route(ctx *fasthttp.RequestCtx) {
	var err error
	var start time.Time
	if f.collectTimings && metrics.Enabled() {
		start = time.Now()
		defer func() {
			recordResponseDuration("uint32", ctx, err, time.Since(start))
		}()
	}

	qp := queryParams{ctx.QueryArgs()}
	var v uint32
	if bound, ok := qp.Uint32("bound"); ok {
		v, err = sodium.Uniform(bound)
	} else {
		v, err = sodium.Uint32()
	}
	if err != nil {
		WriteError(ctx, err)
		return
	}
	WriteJSON(ctx, map[string]any{"value": v})
}

type status struct {
	Initialized    bool   `json:"initialized"`
	Seeded         bool   `json:"seeded"`
	Implementation string `json:"implementation"`
	SodiumVersion  string `json:"sodium_version"`
}

func (f *httpFE) statusRoute(ctx *fasthttp.RequestCtx) {
	WriteJSON(ctx, status{
		Initialized:    sodium.Initialized(),
		Seeded:         sodium.Seeded(),
		Implementation: sodium.ImplementationName(),
		SodiumVersion:  sodium.Version(),
	})
}

func (f *httpFE) ping(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
}

func parseCount(ctx *fasthttp.RequestCtx, maxBytes int) (int, error) {
	s, ok := ctx.UserValue("count").(string)
	if !ok {
		return 0, errInvalidCount
	}
	count, err := strconv.Atoi(s)
	if err != nil || count <= 0 {
		return 0, errInvalidCount
	}
	if count > maxBytes {
		return 0, errCountTooLarge
	}
	return count, nil
}
