package http

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// queryParams wraps a parsed URL Query with some typed helpers.
type queryParams struct {
	*fasthttp.Args
}

// String returns a string parsed from a query. Every key can be returned as a
// string because they are encoded in the URL as strings.
func (qp queryParams) String(key string) (string, bool) {
	v := qp.Peek(key)
	return string(v), v != nil
}

// Uint32 returns 32-bit unsigned value parsed from a query.
func (qp queryParams) Uint32(key string) (uint32, bool) {
	if !qp.Has(key) {
		return 0, false
	}
	v, err := qp.GetUint(key)
	if err != nil || v < 0 || uint64(v) > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

// MarshalZerologObject writes fields into zerolog event
func (qp queryParams) MarshalZerologObject(e *zerolog.Event) {
	e.Stringer("query", qp.Args)
}
