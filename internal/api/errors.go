package api

import (
	"errors"
	"fmt"
	"strings"
)

// genericFailure is the fallback user text when the server provides none,
// or when the failure happened before a server verdict could be read
// (transport errors, unparseable bodies).
const genericFailure = "The operation could not be completed."

// Error is an application-level failure: the request reached the server but
// the outcome is a failure, signalled by a non-2xx HTTP status or by an
// envelope whose status field is not the literal "ok".
type Error struct {
	Endpoint string
	Status   int // HTTP status code
	Message  string
	Detail   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (http %d)", e.Endpoint, e.UserMessage(), e.Status)
}

// UserMessage resolves the user-facing text with the precedence
// message, then detail, then the generic fallback.
func (e *Error) UserMessage() string {
	if m := strings.TrimSpace(e.Message); m != "" {
		return m
	}
	if d := strings.TrimSpace(e.Detail); d != "" {
		return d
	}
	return genericFailure
}

// DecodeError is a response body that did not parse as the expected JSON.
// It is deliberately distinct from Error: the server's verdict is unknown,
// so callers surface the generic message. Body carries a snippet of the raw
// response for diagnosis.
type DecodeError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: unexpected response body (http %d): %q", e.Endpoint, e.Status, e.Body)
}

// ErrInvalidStatus refuses status targets outside public/private before any
// request is made.
var ErrInvalidStatus = errors.New("invalid status")

// UserMessage turns any failed client call into the text shown to the user.
// Application failures carry the server's words; everything else (transport,
// decode) collapses to the generic fallback.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.UserMessage()
	}
	return genericFailure
}
