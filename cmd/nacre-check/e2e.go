// Package main contains end-to-end nacre check implementation.
// not used in production
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/valyala/fasthttp"
)

var (
	addr  = flag.String("addr", "http://127.0.0.1:8880", "address of the nacre HTTP frontend")
	count = flag.Int("count", 64, "number of random bytes to request")
	token = flag.String("jwt", "", "bearer token, if the frontend requires auth")

	client = &fasthttp.Client{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
)

func main() {
	flag.Parse()

	log.Println("checking status...")
	st, err := checkStatus()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("initialized=%v seeded=%v implementation=%q sodium=%s",
		st.Initialized, st.Seeded, st.Implementation, st.SodiumVersion)

	log.Println("checking random payloads...")
	if err = checkRandom(*count); err != nil {
		log.Fatal(err)
	}

	log.Println("checking uint32...")
	if err = checkUint32(); err != nil {
		log.Fatal(err)
	}

	log.Println("success")
}

type status struct {
	Initialized    bool   `json:"initialized"`
	Seeded         bool   `json:"seeded"`
	Implementation string `json:"implementation"`
	SodiumVersion  string `json:"sodium_version"`
}

func get(path string) ([]byte, error) {
	req, resp := fasthttp.AcquireRequest(), fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(*addr + path)
	if len(*token) > 0 {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+*token)
	}
	if err := client.Do(req, resp); err != nil {
		return nil, err
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("GET %s: unexpected status %d: %s", path, resp.StatusCode(), resp.Body())
	}
	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}

func checkStatus() (st status, err error) {
	var body []byte
	if body, err = get("/status"); err == nil {
		if err = json.Unmarshal(body, &st); err == nil && !st.Initialized {
			err = fmt.Errorf("frontend is up, but libsodium is not initialised: %s", body)
		}
	}
	return
}

func checkRandom(count int) error {
	path := fmt.Sprintf("/random/%d?format=hex", count)
	first, err := get(path)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(string(first))
	if err != nil {
		return fmt.Errorf("payload is not valid hex: %w", err)
	}
	if len(raw) != count {
		return fmt.Errorf("expected %d bytes, got %d", count, len(raw))
	}
	second, err := get(path)
	if err != nil {
		return err
	}
	if string(first) == string(second) {
		return fmt.Errorf("generator does not advance, got same payload twice: %s", first)
	}
	return nil
}

func checkUint32() error {
	body, err := get("/uint32?bound=10")
	if err != nil {
		return err
	}
	var out struct {
		Value uint32 `json:"value"`
	}
	if err = json.Unmarshal(body, &out); err != nil {
		return err
	}
	if out.Value >= 10 {
		return fmt.Errorf("expected value within [0, 10), got %d", out.Value)
	}
	return nil
}
