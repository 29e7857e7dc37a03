package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for run-control and HTTP mapping purposes.
type Kind string

const (
	// KindValidation indicates bad caller input; the run never starts.
	KindValidation Kind = "validation_error"

	// KindNotConnected indicates no Gmail credential is stored for the user.
	KindNotConnected Kind = "not_connected"

	// KindDecryptFailed indicates the stored refresh secret could not be
	// decrypted. This is a configuration-level failure (wrong encryption
	// key) and is never retryable.
	KindDecryptFailed Kind = "decrypt_failed"

	// KindRefreshFailed indicates the identity provider rejected or failed
	// the token refresh. The caller may retry the whole run later.
	KindRefreshFailed Kind = "refresh_failed"

	// KindArchiveIO indicates the workspace or archive could not be written.
	KindArchiveIO Kind = "archive_io_error"

	// KindNotFound indicates a missing record or an ownership mismatch.
	KindNotFound Kind = "not_found"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a bad-input error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// NotConnected creates an error for a user without a stored mail credential.
func NotConnected(msg string) *Error {
	return &Error{Kind: KindNotConnected, Status: http.StatusBadRequest, Message: msg}
}

// DecryptFailed creates a fatal configuration-level decryption error.
func DecryptFailed(msg string, err error) *Error {
	return &Error{Kind: KindDecryptFailed, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// RefreshFailed creates a token refresh error carrying the provider detail.
func RefreshFailed(msg string, err error) *Error {
	return &Error{Kind: KindRefreshFailed, Status: http.StatusBadGateway, Message: msg, Err: err}
}

// ArchiveIO creates an error for workspace or archive write failures.
func ArchiveIO(msg string, err error) *Error {
	return &Error{Kind: KindArchiveIO, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// NotFound creates a client-visible not-found error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg}
}

// KindOf returns the classification of err, or the empty Kind for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the HTTP status for err, defaulting to 500 for
// unclassified errors.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
