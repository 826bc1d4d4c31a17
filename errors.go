package gameplaytags

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for tag registry conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrSourceUnavailable indicates the tag universe could not be loaded from its source.
	// The registry still builds an empty snapshot so queries stay well-defined.
	ErrSourceUnavailable = errors.New("tag source unavailable")

	// ErrInvalidPath indicates a tag path that cannot be canonicalized
	// (empty, or containing an empty segment such as "A..B").
	ErrInvalidPath = errors.New("invalid tag path")

	// ErrUnknownFormat indicates a tag list file whose format cannot be determined.
	ErrUnknownFormat = errors.New("unknown tag list format")

	// ErrInvalidQuery indicates a tag query expression that failed to compile or evaluate.
	ErrInvalidQuery = errors.New("invalid tag query")

	// ErrMalformedSet indicates an encoded tag set that could not be decoded.
	ErrMalformedSet = errors.New("malformed tag set")
)

// Error kinds categorize errors by their type.
const (
	// KindSource represents errors loading the tag universe.
	KindSource = "source"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindQuery represents errors compiling or evaluating tag queries.
	KindQuery = "query"

	// KindDecode represents errors decoding serialized tags or sets.
	KindDecode = "decode"
)

// Error is a structured error type that wraps underlying errors with
// the operation that failed and the category of error.
//
// Error supports unwrapping, so errors.Is() and errors.As() work on it.
//
//	err := &Error{
//		Op:   "Registry.Reload",
//		Kind: KindSource,
//		Err:  ErrSourceUnavailable,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Registry.Reload", "Set.UnmarshalBinary").
	Op string

	// Kind categorizes the error (e.g., KindSource, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context carries optional debugging information such as the offending path.
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gameplaytags: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("gameplaytags: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("gameplaytags: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op, when the target sets one),
// then falls back to the wrapped error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context merged in.
//
//	err = err.WithContext(map[string]any{"path": "Combat..Fire"})
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewSourceError creates a new Error with KindSource.
func NewSourceError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindSource, Err: err}
}

// NewValidationError creates a new Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewQueryError creates a new Error with KindQuery.
func NewQueryError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindQuery, Err: err}
}

// NewDecodeError creates a new Error with KindDecode.
func NewDecodeError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindDecode, Err: err}
}

// CloseWithLog closes the resource and logs any error at warning level.
// Intended for defer statements on watchers and source clients.
// If logger is nil, slog.Default() is used.
//
//	defer gameplaytags.CloseWithLog(watcher, logger, "tag file watcher")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
