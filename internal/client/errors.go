package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTransport matches every failure to reach the backend or get a success
// response from it.
var ErrTransport = errors.New("transport failed")

// TransportError is one failed HTTP exchange. Status is 0 when no response
// was received.
type TransportError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": " + e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Attempt records one submit strategy and how it failed.
type Attempt struct {
	Strategy string
	Err      error
}

// SubmitError is returned when every submit strategy failed.
type SubmitError struct {
	Attempts []Attempt
}

func (e *SubmitError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Strategy + ": " + a.Err.Error()
	}
	return "submit failed: " + strings.Join(parts, "; ")
}

func (e *SubmitError) Is(target error) bool { return target == ErrTransport }

func (e *SubmitError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Message is the human readable reason of the last attempt.
func (e *SubmitError) Message() string {
	if len(e.Attempts) == 0 {
		return "submit failed"
	}
	var te *TransportError
	if last := e.Attempts[len(e.Attempts)-1].Err; errors.As(last, &te) && te.Message != "" {
		return te.Message
	}
	return e.Attempts[len(e.Attempts)-1].Err.Error()
}
