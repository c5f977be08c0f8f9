package errs

import (
	"errors"
	"fmt"
)

// Error kinds returned by the repositories
var (
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrOwnership  = errors.New("task belongs to another project")
	ErrCapacity   = errors.New("WIP limit full")
	ErrStorage    = errors.New("storage failure")
)

// Error carries a kind sentinel plus the operation and field that failed
type Error struct {
	Kind    error
	Op      string // operation that failed, e.g. "MoveTask"
	Field   string // offending input field for validation errors
	Details string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap lets errors.Is match both the kind and the underlying cause
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Message is the short, user facing text without the operation prefix or cause
func (e *Error) Message() string {
	switch {
	case e.Details == "":
		return e.Kind.Error()
	case e.Kind == ErrNotFound:
		return e.Details + " not found"
	}
	return e.Details
}

func Validation(op, field, details string) *Error {
	return &Error{Kind: ErrValidation, Op: op, Field: field, Details: details}
}

func Conflict(op, details string) *Error {
	return &Error{Kind: ErrConflict, Op: op, Details: details}
}

// NotFound takes what was missing, e.g. "task 4"
func NotFound(op, details string) *Error {
	return &Error{Kind: ErrNotFound, Op: op, Details: details}
}

func Ownership(op string, taskID, projectID int64) *Error {
	return &Error{
		Kind:    ErrOwnership,
		Op:      op,
		Details: fmt.Sprintf("task %d is not part of project %d", taskID, projectID),
	}
}

func Capacity(op string, limit int) *Error {
	return &Error{
		Kind:    ErrCapacity,
		Op:      op,
		Details: fmt.Sprintf("at most %d tasks can be in DOING", limit),
	}
}

func Storage(op string, cause error) *Error {
	return &Error{Kind: ErrStorage, Op: op, Cause: cause}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsOwnership(err error) bool  { return errors.Is(err, ErrOwnership) }
func IsCapacity(err error) bool   { return errors.Is(err, ErrCapacity) }
func IsStorage(err error) bool    { return errors.Is(err, ErrStorage) }

// UserMessage returns the text to show a person for err
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == ErrStorage {
			return "something went wrong talking to the database"
		}
		if e.Field != "" {
			return e.Field + ": " + e.Message()
		}
		return e.Message()
	}
	return err.Error()
}
