package service

import (
	"connectrpc.com/connect"

	"github.com/mmynk/gamemate/internal/lifecycle"
)

// ErrorKindHeader carries the lifecycle error kind on failed responses, so
// clients can tell outcomes apart that share a Connect code.
const ErrorKindHeader = "Gamemate-Error-Kind"

// codeForKind maps lifecycle outcomes to Connect codes.
func codeForKind(kind lifecycle.Kind) connect.Code {
	switch kind {
	case lifecycle.KindNotAuthenticated:
		return connect.CodeUnauthenticated
	case lifecycle.KindAlreadyVoted, lifecycle.KindAlreadyRated:
		return connect.CodeAlreadyExists
	case lifecycle.KindNotFound:
		return connect.CodeNotFound
	case lifecycle.KindInvalidInput:
		return connect.CodeInvalidArgument
	case lifecycle.KindStoreFailure:
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

// lifecycleError converts an error from the lifecycle service.
func lifecycleError(err error) *connect.Error {
	kind := lifecycle.KindOf(err)
	connectErr := connect.NewError(codeForKind(kind), err)
	connectErr.Meta().Set(ErrorKindHeader, string(kind))
	return connectErr
}
