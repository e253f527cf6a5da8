// Package apperr classifies request failures so handlers can map them to
// HTTP status codes without inspecting error strings.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application failure.
type Kind string

const (
	KindInternal     Kind = "internal"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
)

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

func Invalid(message string) error      { return E(KindInvalidInput, message) }
func Unauthorized(message string) error { return E(KindUnauthorized, message) }
func Forbidden(message string) error    { return E(KindForbidden, message) }
func NotFound(message string) error     { return E(KindNotFound, message) }
func Conflict(message string) error     { return E(KindConflict, message) }

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
