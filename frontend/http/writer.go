package http

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/sot-tech/nacre/frontend"
)

// WriteError communicates an error to the client. Internal errors are
// logged and hidden behind a generic message.
func WriteError(ctx *fasthttp.RequestCtx, err error) {
	var clientErr frontend.ClientError
	if errors.As(err, &clientErr) {
		ctx.Error(clientErr.Error(), fasthttp.StatusBadRequest)
		return
	}
	logger.Error().Err(err).Msg("internal error")
	ctx.Error("internal server error", fasthttp.StatusInternalServerError)
}

// WriteJSON encodes provided value into the response body.
func WriteJSON(ctx *fasthttp.RequestCtx, v any) {
	ctx.SetContentType("application/json; charset=utf-8")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		logger.Error().Err(err).Msg("unable to encode response")
	}
}
