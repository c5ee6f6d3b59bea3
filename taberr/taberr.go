package taberr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindNone Kind = iota
	// Malformed input: bad signature, truncated section, length mismatch.
	Malformed
	// Unsupported format variant: recognised container, unimplemented layout.
	Unsupported
	// TooLarge input, rejected before decoding starts.
	TooLarge
	// Invariant violation the builder could not reconcile.
	Invariant
	// Canceled by the caller's context mid-decode.
	Canceled
)

func (k Kind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case Unsupported:
		return "unsupported"
	case TooLarge:
		return "too large"
	case Invariant:
		return "invariant"
	case Canceled:
		return "canceled"
	}
	return "unknown"
}

// Error is a structured decode failure. Offset is -1 when no byte position
// applies (xml documents, whole-file checks).
type Error struct {
	Kind    Kind
	Section string
	Offset  int
	Reason  string
	err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Section != "" {
		msg += " " + e.Section
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	msg += ": " + e.Reason
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func New(kind Kind, section string, offset int, reason string) error {
	return errors.WithStack(&Error{Kind: kind, Section: section, Offset: offset, Reason: reason})
}

func Newf(kind Kind, section string, offset int, format string, args ...any) error {
	return New(kind, section, offset, fmt.Sprintf(format, args...))
}

// Wrap attaches a kind to an error coming out of another library (zip, xml).
func Wrap(err error, kind Kind, section string, reason string) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Section: section, Offset: -1, Reason: reason, err: err})
}

func Malformedf(section string, offset int, format string, args ...any) error {
	return Newf(Malformed, section, offset, format, args...)
}

func Unsupportedf(section string, format string, args ...any) error {
	return Newf(Unsupported, section, -1, format, args...)
}

func Invariantf(section string, format string, args ...any) error {
	return Newf(Invariant, section, -1, format, args...)
}

// KindOf digs through pkg/errors wrapping; errors without a kind are
// reported as KindNone.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

// Reason returns the human readable reason of the innermost decode error,
// falling back to err.Error().
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
