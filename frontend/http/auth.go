package http

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/valyala/fasthttp"

	"github.com/sot-tech/nacre/pkg/str2bytes"
)

var (
	errNoKeySource = errors.New("auth enabled, but no secret, jwk_set_url or jwk_set_file provided")

	hmacMethods = []string{"HS256", "HS384", "HS512"}
	jwksMethods = []string{
		"RS256", "RS384", "RS512",
		"ES256", "ES384", "ES512",
		"PS256", "PS384", "PS512",
		"EdDSA",
	}
)

// AuthConfig represents the values required to protect random routes
// with bearer JWT-s. Exactly one key source is used: a static HMAC
// secret, a JWK Set HTTP endpoint (keys rotated in background) or a
// local JWK Set file.
type AuthConfig struct {
	Secret     string `cfg:"secret"`
	JWKSetURL  string `cfg:"jwk_set_url"`
	JWKSetFile string `cfg:"jwk_set_file"`
	Issuer     string `cfg:"issuer"`
	Audience   string `cfg:"audience"`
}

func (a AuthConfig) empty() bool {
	return len(a.Secret) == 0 && len(a.JWKSetURL) == 0 && len(a.JWKSetFile) == 0
}

type authorizer struct {
	parser *jwt.Parser
	keys   jwt.Keyfunc
}

func newAuthorizer(cfg AuthConfig) (a *authorizer, err error) {
	a = new(authorizer)
	methods := jwksMethods
	switch {
	case len(cfg.Secret) > 0:
		methods = hmacMethods
		secret := []byte(cfg.Secret)
		a.keys = func(_ *jwt.Token) (any, error) { return secret, nil }
	case len(cfg.JWKSetURL) > 0:
		var kf keyfunc.Keyfunc
		if kf, err = keyfunc.NewDefault([]string{cfg.JWKSetURL}); err == nil {
			a.keys = kf.Keyfunc
		}
	case len(cfg.JWKSetFile) > 0:
		var raw []byte
		if raw, err = os.ReadFile(cfg.JWKSetFile); err == nil {
			var kf keyfunc.Keyfunc
			if kf, err = keyfunc.NewJWKSetJSON(json.RawMessage(raw)); err == nil {
				a.keys = kf.Keyfunc
			}
		}
	default:
		err = errNoKeySource
	}
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods(methods), jwt.WithExpirationRequired()}
	if len(cfg.Issuer) > 0 {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if len(cfg.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	a.parser = jwt.NewParser(opts...)
	return a, nil
}

const bearerPrefix = "Bearer "

func extractToken(ctx *fasthttp.RequestCtx) string {
	h := str2bytes.BytesToString(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
	if len(h) > len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return h[len(bearerPrefix):]
	}
	return str2bytes.BytesToString(ctx.QueryArgs().Peek("jwt"))
}

// wrap protects the provided handler, letting exempt routes through as-is.
func (a *authorizer) wrap(next fasthttp.RequestHandler, exempt []string) fasthttp.RequestHandler {
	ex := make(map[string]struct{}, len(exempt))
	for _, route := range exempt {
		ex[route] = struct{}{}
	}
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := ex[str2bytes.BytesToString(ctx.Path())]; ok {
			next(ctx)
			return
		}
		token := extractToken(ctx)
		if len(token) == 0 {
			ctx.Error("unapproved request: missing jwt", fasthttp.StatusUnauthorized)
			return
		}
		if _, err := a.parser.Parse(token, a.keys); err != nil {
			logger.Debug().Err(err).Msg("failed to verify jwt")
			ctx.Error("unapproved request: invalid jwt", fasthttp.StatusUnauthorized)
			return
		}
		next(ctx)
	}
}
