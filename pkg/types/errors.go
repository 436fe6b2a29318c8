package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the codec matches exactly one of these
// with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrMalformedArchive  = errors.New("malformed archive")
	ErrMalformedDocument = errors.New("malformed document")
	ErrStorage           = errors.New("storage error")
	ErrIO                = errors.New("i/o error")
)

// Specific failures, each wrapping one of the kinds above.
var (
	ErrMissingEntry      = fmt.Errorf("%w: missing required entry", ErrNotFound)
	ErrUnsafePath        = fmt.Errorf("%w: entry path escapes workspace", ErrMalformedArchive)
	ErrInvalidAnswer     = fmt.Errorf("%w: answer has no code for the card phase", ErrMalformedDocument)
	ErrDanglingReference = fmt.Errorf("%w: dangling reference", ErrMalformedDocument)
	ErrClosed            = fmt.Errorf("%w: package is closed", ErrIO)
)

// DocumentError reports a schema violation inside one of the embedded JSON
// documents. Structure names the object being decoded (for example "model"
// or "deck config new"), Field the offending key or tuple position.
type DocumentError struct {
	Structure string
	Field     string
	Reason    string
}

func (e *DocumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s: %s", ErrMalformedDocument, e.Structure, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s: %s", ErrMalformedDocument, e.Structure, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedDocument) match a *DocumentError.
func (e *DocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// Kind returns the name of the error kind err belongs to, or "Unknown".
// The CLI prints it next to the message.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrMalformedArchive):
		return "MalformedArchive"
	case errors.Is(err, ErrMalformedDocument):
		return "MalformedDocument"
	case errors.Is(err, ErrStorage):
		return "StorageError"
	case errors.Is(err, ErrIO):
		return "IoError"
	default:
		return "Unknown"
	}
}
