// Package apperr is the error taxonomy every data-layer call returns.
//
// Services never leak raw driver, transport or decoding errors: whatever goes wrong is
// funnelled through Classify into one of six kinds, and callers render a title/message
// pair per kind with Describe.
package apperr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is the class of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindEmpty
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindEmpty:
		return "empty"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Error is the only error type returned across the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, apperr.ErrEmpty) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons by kind.
var (
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrEmpty        = &Error{Kind: KindEmpty}
	ErrCustom       = &Error{Kind: KindCustom}
	ErrUnknown      = &Error{Kind: KindUnknown}
)

func Network(err error) *Error { return &Error{Kind: KindNetwork, Err: err} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func Empty(msg string) *Error { return &Error{Kind: KindEmpty, Message: msg} }

// Custom is a domain validation failure whose message is shown to the user as is.
func Custom(msg string) *Error { return &Error{Kind: KindCustom, Message: msg} }

func Unknown(err error) *Error { return &Error{Kind: KindUnknown, Err: err} }

// KindOf returns the kind of err after classification.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	return Classify(err).Kind
}

// Classify maps any error into the taxonomy. A nil error stays nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return fromGRPC(st, err)
	}

	var (
		netErr net.Error
		urlErr *url.Error
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return &Error{Kind: KindEmpty, Err: err}
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.As(err, &netErr),
		errors.As(err, &urlErr):
		return Network(err)
	}
	// Decoding failures and anything unrecognised.
	return Unknown(err)
}

func fromGRPC(st *status.Status, err error) *Error {
	switch st.Code() {
	case codes.Unauthenticated:
		return &Error{Kind: KindUnauthorized, Message: st.Message(), Err: err}
	case codes.PermissionDenied:
		return &Error{Kind: KindForbidden, Message: st.Message(), Err: err}
	case codes.NotFound:
		return &Error{Kind: KindEmpty, Message: st.Message(), Err: err}
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted, codes.Aborted:
		return &Error{Kind: KindNetwork, Message: st.Message(), Err: err}
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition, codes.OutOfRange:
		return &Error{Kind: KindCustom, Message: st.Message(), Err: err}
	default:
		return &Error{Kind: KindUnknown, Message: st.Message(), Err: err}
	}
}

// FromHTTPStatus classifies a completed HTTP exchange. 2xx other than 204 returns nil.
// body is the server's error text, if any.
func FromHTTPStatus(code int, body string) *Error {
	body = strings.TrimSpace(body)
	switch {
	case code == http.StatusNoContent:
		return Empty(body)
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return Unauthorized(body)
	case code == http.StatusForbidden:
		return Forbidden(body)
	}
	msg := fmt.Sprintf("unexpected status %d", code)
	if body != "" {
		msg += ": " + body
	}
	return &Error{Kind: KindNetwork, Message: msg}
}

// Describe returns the generic title/message pair a caller renders for err.
// Custom errors surface their own message.
func Describe(err error) (title, message string) {
	e := Classify(err)
	if e == nil {
		return "", ""
	}
	switch e.Kind {
	case KindNetwork:
		return "Connection problem", "Please check your internet connection and try again."
	case KindUnauthorized:
		return "Session expired", "Please sign in again."
	case KindForbidden:
		return "Access denied", "You don't have permission to do that."
	case KindEmpty:
		return "Nothing here", "No data was found."
	case KindCustom:
		return "Something went wrong", e.Message
	default:
		return "Unexpected error", "Something unexpected happened. Please try again."
	}
}
