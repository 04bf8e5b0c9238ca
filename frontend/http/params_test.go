package http

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestQueryParamsString(t *testing.T) {
	q := queryParams{new(fasthttp.Args)}
	q.Parse("format=hex&empty=")

	v, ok := q.String("format")
	require.True(t, ok)
	require.Equal(t, "hex", v)

	v, ok = q.String("empty")
	require.True(t, ok)
	require.Empty(t, v)

	_, ok = q.String("missing")
	require.False(t, ok)
}

func TestQueryParamsUint32(t *testing.T) {
	q := queryParams{new(fasthttp.Args)}
	q.Parse("bound=10&neg=-1&big=4294967296&str=abc")

	v, ok := q.Uint32("bound")
	require.True(t, ok)
	require.Equal(t, uint32(10), v)

	for _, key := range []string{"neg", "big", "str", "missing"} {
		_, ok = q.Uint32(key)
		require.False(t, ok, "key %s", key)
	}
}

func TestQueryParamsLog(t *testing.T) {
	q := queryParams{new(fasthttp.Args)}
	q.Parse("bound=10&format=hex")

	var out bytes.Buffer
	zerolog.New(&out).Info().Object("params", q).Send()
	require.Contains(t, out.String(), `"query":"bound=10&format=hex"`)
}
