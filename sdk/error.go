package sdk

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Error is a layersync error, identified by its ID.
type Error struct {
	ID       int    `json:"id"`
	ExitCode int    `json:"-"`
	Message  string `json:"message"`
	From     string `json:"from,omitempty"`
}

// Existing layersync errors
var (
	ErrUnknownError           = Error{ID: 1, ExitCode: 1}
	ErrWrongConfiguration     = Error{ID: 2, ExitCode: 2}
	ErrNoArtifact             = Error{ID: 3, ExitCode: 3}
	ErrRegionalFailure        = Error{ID: 4, ExitCode: 4}
	ErrNotFound               = Error{ID: 5, ExitCode: 1}
	ErrArchiveEmpty           = Error{ID: 6, ExitCode: 1}
	ErrArchiveMultipleEntries = Error{ID: 7, ExitCode: 1}
	ErrInvalidArchive         = Error{ID: 8, ExitCode: 1}
	ErrUnauthorized           = Error{ID: 9, ExitCode: 1}
	ErrNothingToPublish       = Error{ID: 10, ExitCode: 4}
)

var errorsAmericanEnglish = map[int]string{
	ErrUnknownError.ID:           "internal error",
	ErrWrongConfiguration.ID:     "wrong configuration",
	ErrNoArtifact.ID:             "requested repository has no available artifact",
	ErrRegionalFailure.ID:        "distribution failed in at least one region",
	ErrNotFound.ID:               "resource not found",
	ErrArchiveEmpty.ID:           "artifact archive contains no file",
	ErrArchiveMultipleEntries.ID: "artifact archive contains more than one file",
	ErrInvalidArchive.ID:         "artifact archive is not a valid zip file",
	ErrUnauthorized.ID:           "unauthorized",
	ErrNothingToPublish.ID:       "no region has been uploaded successfully",
}

func (e Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = errorsAmericanEnglish[e.ID]
	}
	if e.From != "" {
		return fmt.Sprintf("%s (from: %s)", msg, e.From)
	}
	return msg
}

func (e Error) String() string {
	return e.Error()
}

type errorWithStack struct {
	root      error
	stack     error
	knowError Error
}

func (e errorWithStack) Error() string {
	if _, ok := errors.Cause(e.root).(Error); ok {
		return e.root.Error()
	}
	cause := e.root.Error()
	if e.knowError.ID == ErrUnknownError.ID {
		return cause
	}
	known := e.knowError.Error()
	if cause == known {
		return known
	}
	return fmt.Sprintf("%s: %s", cause, known)
}

// Format prints the stack trace with %+v as pkg/errors does.
func (e errorWithStack) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%+v", e.stack)
			return
		}
		fallthrough
	case 's':
		_, _ = s.Write([]byte(e.Error()))
	}
}

func (e errorWithStack) Unwrap() error {
	return e.root
}

// NewError returns a known error that wraps the given root error.
func NewError(target Error, root error) error {
	if root == nil {
		return errorWithStack{root: target, stack: errors.WithStack(target), knowError: target}
	}
	return errorWithStack{root: root, stack: errors.WithStack(root), knowError: target}
}

// NewErrorFrom returns a known error with extra information.
func NewErrorFrom(target Error, format string, args ...interface{}) error {
	target.From = fmt.Sprintf(format, args...)
	return NewError(target, nil)
}

// WrapError returns an error with the given message and the stack trace of err.
func WrapError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if e, ok := err.(errorWithStack); ok {
		e.root = errors.Wrap(e.root, msg)
		return e
	}
	target := ExtractError(err)
	return errorWithStack{root: errors.Wrap(err, msg), stack: errors.WithStack(err), knowError: target}
}

// WithStack adds a stack trace to err if it doesn't have one.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(errorWithStack); ok {
		return err
	}
	return errorWithStack{root: err, stack: errors.WithStack(err), knowError: ExtractError(err)}
}

// Cause returns the root cause of the error.
func Cause(err error) error {
	if e, ok := err.(errorWithStack); ok {
		return errors.Cause(e.root)
	}
	return errors.Cause(err)
}

// ExtractError returns the known error of err, or ErrUnknownError.
func ExtractError(err error) Error {
	if err == nil {
		return ErrUnknownError
	}
	switch e := err.(type) {
	case errorWithStack:
		return e.knowError
	case Error:
		return e
	case *Error:
		return *e
	}
	var ews errorWithStack
	if errors.As(err, &ews) {
		return ews.knowError
	}
	return ErrUnknownError
}

// ErrorIs returns true if err matches the known error t.
func ErrorIs(err error, t Error) bool {
	if err == nil {
		return false
	}
	if ExtractError(err).ID == t.ID {
		return true
	}
	if t.ID == ErrUnknownError.ID {
		return false
	}
	// errors converted to plain text keep the known message
	return strings.Contains(err.Error(), t.Error())
}

// ExitCode returns the process exit code to use for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	code := ExtractError(err).ExitCode
	if code == 0 {
		return 1
	}
	return code
}
