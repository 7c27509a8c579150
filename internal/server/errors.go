package server

import (
	"context"
	"errors"

	"tft-wrapped/internal/apperr"

	"connectrpc.com/connect"
)

func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return connect.CodeInvalidArgument
	case apperr.KindNotFound:
		return connect.CodeNotFound
	case apperr.KindRateLimit:
		return connect.CodeResourceExhausted
	case apperr.KindJobFailed, apperr.KindNotReady:
		return connect.CodeFailedPrecondition
	case apperr.KindNetwork, apperr.KindIconLookup:
		return connect.CodeUnavailable
	case apperr.KindTimeout:
		return connect.CodeDeadlineExceeded
	default:
		return connect.CodeInternal
	}
}

// toConnectError keeps the taxonomy kind visible to clients through the
// code and an "x-error-kind" metadata entry.
func toConnectError(err error) *connect.Error {
	cerr := connect.NewError(connectCode(err), err)
	cerr.Meta().Set("x-error-kind", apperr.KindOf(err).String())
	return cerr
}
