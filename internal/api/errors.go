package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for empty results the callers must treat as fatal to the
// operation that needed them.
var (
	// ErrNoQuestions is returned when the question bank comes back empty.
	ErrNoQuestions = errors.New("no questions available")
	// ErrEmptyAnswer is returned when the chat endpoint answers with nothing.
	ErrEmptyAnswer = errors.New("empty answer")
)

// NetworkError wraps a transport failure or a non-2xx status.
type NetworkError struct {
	Op     string
	Status int // 0 when the request never completed
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps a malformed response body.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: decoding response: %v", e.Op, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError carries a server-side rejection (success:false) with the
// message the server supplied.
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Op + ": server rejected the request"
	}
	return e.Op + ": " + e.Message
}

// IsValidation reports whether err is a server-side rejection, so callers
// can show the server's message instead of a generic network notice.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
