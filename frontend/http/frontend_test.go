package http

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/sot-tech/nacre/pkg/conf"
	"github.com/sot-tech/nacre/pkg/log"
	"github.com/sot-tech/nacre/pkg/xorshift"
	"github.com/sot-tech/nacre/sodium"
)

// nolint:gosec
var addr = fmt.Sprintf("127.0.0.1:%d", rand.Int63n(10000)+16384)

func init() {
	_ = log.ConfigureLogger("", "error", false, false)
	if err := sodium.InitWithSeed(11, 22); err != nil {
		panic(err)
	}
	_, err := NewFrontend(conf.MapConfig{
		"addr":             addr,
		"enable_keepalive": true,
		"max_bytes":        1024,
		"ping_routes":      []string{"/ping"},
	})
	if err != nil {
		panic(err)
	}
	waitUp(addr)
}

func waitUp(addr string) {
	for i := 0; i < 100; i++ {
		if conn, err := net.DialTimeout("tcp", addr, time.Second); err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	panic("frontend did not start listening on " + addr)
}

func runGet(t *testing.T, u string) (int, []byte) {
	t.Helper()
	// nolint:gosec
	r, err := http.Get(u)
	require.NoError(t, err)
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	return r.StatusCode, body
}

func TestStatus(t *testing.T) {
	code, body := runGet(t, "http://"+addr+"/status")
	require.Equal(t, http.StatusOK, code)

	var st status
	require.NoError(t, json.Unmarshal(body, &st))
	require.True(t, st.Initialized)
	require.True(t, st.Seeded)
	require.Equal(t, sodium.ImplName, st.Implementation)
	require.NotEmpty(t, st.SodiumVersion)
}

func TestRandomDeterministic(t *testing.T) {
	require.NoError(t, sodium.InitWithSeed(11, 22))

	code, body := runGet(t, "http://"+addr+"/random/32?format=hex")
	require.Equal(t, http.StatusOK, code)

	expected := make([]byte, 32)
	xorshift.NewSource(11, 22).Fill(expected)
	require.Equal(t, hex.EncodeToString(expected), string(body))
}

func TestRandomRaw(t *testing.T) {
	code, body := runGet(t, "http://"+addr+"/random/16")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body, 16)
}

func TestRandomBase64(t *testing.T) {
	code, body := runGet(t, "http://"+addr+"/random/8?format=base64")
	require.Equal(t, http.StatusOK, code)
	raw, err := base64.StdEncoding.DecodeString(string(body))
	require.NoError(t, err)
	require.Len(t, raw, 8)
}

func TestRandomBadRequests(t *testing.T) {
	for _, path := range []string{
		"/random/0",
		"/random/-1",
		"/random/abc",
		"/random/2048",
		"/random/16?format=bogus",
	} {
		code, _ := runGet(t, "http://"+addr+path)
		require.Equal(t, http.StatusBadRequest, code, "path %s", path)
	}
}

func TestRandomServedBytesCounter(t *testing.T) {
	before := testutil.ToFloat64(promServedBytes)

	code, _ := runGet(t, "http://"+addr+"/random/32")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, before+32, testutil.ToFloat64(promServedBytes))

	// rejected requests must not count
	code, _ = runGet(t, "http://"+addr+"/random/16?format=bogus")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, before+32, testutil.ToFloat64(promServedBytes))
}

func TestUint32(t *testing.T) {
	require.NoError(t, sodium.InitWithSeed(11, 22))
	code, body := runGet(t, "http://"+addr+"/uint32")
	require.Equal(t, http.StatusOK, code)

	var out struct {
		Value uint32 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, xorshift.NewSource(11, 22).Uint32(), out.Value)
}

func TestUint32Bounded(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, body := runGet(t, "http://"+addr+"/uint32?bound=10")
		require.Equal(t, http.StatusOK, code)
		var out struct {
			Value uint32 `json:"value"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		require.Less(t, out.Value, uint32(10))
	}
}

func TestPing(t *testing.T) {
	code, _ := runGet(t, "http://"+addr+"/ping")
	require.Equal(t, http.StatusOK, code)
}

func BenchmarkRandom(b *testing.B) {
	u := "http://" + addr + "/random/64"
	for i := 0; i < b.N; i++ {
		r, err := http.Get(u)
		if err != nil {
			b.Fatal(err)
		}
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}
}
