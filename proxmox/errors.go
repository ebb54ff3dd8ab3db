package proxmox

import (
	"errors"
	"fmt"
	"net/url"

	"proxpeek/utils"
)

// Error kinds, matched with errors.Is against an *Error.
var (
	ErrInvalidURL = errors.New("invalid proxmox url")
	ErrNetwork    = errors.New("network error")
	ErrHTTPStatus = errors.New("unexpected http status")
	ErrNoData     = errors.New("no data received")
	ErrDecoding   = errors.New("decoding error")
)

// Op names the client operation an Error came from.
type Op string

const (
	OpRefresh Op = "refresh"
	OpToggle  Op = "toggle"
)

// Error is returned by every Client call. Its message is the short text shown
// to the user.
type Error struct {
	Op         Op
	Kind       error
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrInvalidURL:
		return "Invalid Proxmox URL."
	case e.Op == OpToggle && e.Kind == ErrHTTPStatus:
		return fmt.Sprintf("Failed to toggle state, Status Code: %d", e.StatusCode)
	case e.Op == OpToggle:
		return "Failed to toggle state: " + e.detail()
	case e.Kind == ErrNetwork:
		return "Network error: " + e.detail()
	case e.Kind == ErrHTTPStatus:
		return fmt.Sprintf("HTTP error: %d - %s", e.StatusCode, utils.ReasonPhrase(e.StatusCode))
	case e.Kind == ErrNoData:
		return "No data received from Proxmox API."
	case e.Kind == ErrDecoding:
		return "Decoding error: " + e.detail()
	}
	return e.detail()
}

func (e *Error) detail() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// transportCause drops the method and URL net/http prefixes to transport
// errors, keeping only the underlying reason.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
