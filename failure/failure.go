// Package failure normalizes the errors a voice command cycle can end with.
//
// Every component wraps its failures with one of the sentinel kinds below so
// the orchestrator can decide whether the loop continues, and so metrics can
// be labelled without string matching.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrDeviceOpen         = errors.New("DEVICE_OPEN")
	ErrTranscription      = errors.New("TRANSCRIPTION")
	ErrUnrecognizedSpeech = errors.New("UNRECOGNIZED_SPEECH")
	ErrEncoding           = errors.New("ENCODING")
	ErrLinkClosed         = errors.New("LINK_CLOSED")
	ErrLinkWrite          = errors.New("LINK_WRITE")
)

var kinds = []error{
	ErrDeviceOpen,
	ErrTranscription,
	ErrUnrecognizedSpeech,
	ErrEncoding,
	ErrLinkClosed,
	ErrLinkWrite,
}

// Error pairs a normalized kind with the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// New returns an error of the given kind without a cause.
func New(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. A nil err yields nil.
func Wrap(kind error, err error, message string) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Message: message, Err: err}
}

// Kind returns the normalized label of err, "OTHER" for untagged errors and
// "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}

	return "OTHER"
}

// Fatal reports whether err must stop the command loop. Only an input or
// output device that cannot be opened is fatal; everything else ends the
// current cycle.
func Fatal(err error) bool {
	return errors.Is(err, ErrDeviceOpen)
}
