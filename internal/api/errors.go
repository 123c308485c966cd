package api

import (
	"errors"
	"net/http"
)

// Kind classifies a gateway failure for the stores and screens.
type Kind string

const (
	// KindNetwork covers transport failures and unreachable/unhealthy service.
	KindNetwork Kind = "network"
	// KindAuth covers 401s: bad credentials or an expired session.
	KindAuth Kind = "auth"
	// KindValidation covers input the service rejected, e.g. a double-booked slot.
	KindValidation Kind = "validation"
	// KindNotFound covers operating on something that no longer exists.
	KindNotFound Kind = "not_found"
)

// Error is the structured failure every gateway call settles into. Message is
// always human-readable: the server's message field when present, otherwise a
// per-operation default.
type Error struct {
	Kind    Kind
	Op      string
	Message string
}

func (e *Error) Error() string { return e.Message }

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest,
		status == http.StatusConflict,
		status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		// 5xx and anything unrecognised read as "service not usable right now",
		// which the screens treat the same as a transport failure.
		return KindNetwork
	}
}

// KindOf extracts the failure kind, or KindNetwork for non-gateway errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindNetwork
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

// IsNotFound reports whether err is a missing-resource failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
