// Package errs is the error taxonomy shared by the upstream clients, the
// source adapters and the HTTP layer.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can decide between degrading and
// failing hard without inspecting provider-specific details.
type Kind string

const (
	KindConfig       Kind = "config"
	KindNotFound     Kind = "not_found"
	KindRateLimit    Kind = "rate_limit"
	KindUpstream     Kind = "upstream"
	KindInvalidInput Kind = "invalid_input"
)

// Sentinels for errors.Is checks against a Kind.
var (
	ErrConfig       = &Error{Kind: KindConfig}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrRateLimit    = &Error{Kind: KindRateLimit}
	ErrUpstream     = &Error{Kind: KindUpstream}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
)

// Error is the only error type allowed to cross an adapter boundary.
type Error struct {
	Kind    Kind
	Source  string // finnhub, newsapi, reddit, openai, ...
	Status  int    // upstream HTTP status, 0 when the request never completed
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so that errors.Is(err, errs.ErrNotFound) works for any
// wrapped *Error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Source == "" || t.Source == e.Source)
}

func Config(source, message string) *Error {
	return &Error{Kind: KindConfig, Source: source, Message: message}
}

func NotFound(source, message string) *Error {
	return &Error{Kind: KindNotFound, Source: source, Status: http.StatusNotFound, Message: message}
}

func RateLimited(source string) *Error {
	return &Error{
		Kind:    KindRateLimit,
		Source:  source,
		Status:  http.StatusTooManyRequests,
		Message: "rate limit exceeded, try again later",
	}
}

func Upstream(source string, status int, err error) *Error {
	msg := "request failed"
	if status != 0 {
		msg = fmt.Sprintf("unexpected status %d", status)
	}
	return &Error{Kind: KindUpstream, Source: source, Status: status, Message: msg, Err: err}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// FromStatus translates a non-2xx upstream status code into the taxonomy.
func FromStatus(source string, status int) *Error {
	switch status {
	case http.StatusNotFound:
		return NotFound(source, "resource not found")
	case http.StatusTooManyRequests:
		return RateLimited(source)
	case http.StatusUnauthorized:
		return &Error{Kind: KindConfig, Source: source, Status: status, Message: "invalid API key, check credentials"}
	default:
		return Upstream(source, status, nil)
	}
}

// KindOf returns the Kind of err, or KindUpstream for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// StatusOf returns the upstream HTTP status carried by err, if any.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsBlocked reports whether the upstream refused the request outright (403).
func IsBlocked(err error) bool {
	return StatusOf(err) == http.StatusForbidden
}

// HTTPStatus maps an error onto the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindConfig:
		return http.StatusInternalServerError
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// PublicMessage is the message safe to show to a user.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "upstream request failed"
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Ensure returns err unchanged when it already carries a Kind, otherwise it
// wraps it as an upstream failure of source.
func Ensure(source string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Upstream(source, 0, err)
}
