package model

import "errors"

// Kind classifies why a Handle could not be constructed.
type Kind string

const (
	// KindModelNotFound means the resolved path does not exist or is not a directory.
	KindModelNotFound Kind = "model not found"

	// KindModelLoadFailed means the native acoustic model loader failed.
	KindModelLoadFailed Kind = "model load failed"

	// KindSpeakerModelLoadFailed means a speaker model was present but failed to load.
	KindSpeakerModelLoadFailed Kind = "speaker model load failed"
)

// Error definitions for the model package. They match an *Error of the same
// Kind through errors.Is.
var (
	ErrModelNotFound          = errors.New(string(KindModelNotFound))
	ErrModelLoadFailed        = errors.New(string(KindModelLoadFailed))
	ErrSpeakerModelLoadFailed = errors.New(string(KindSpeakerModelLoadFailed))
)

// Error is returned by New when construction fails.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := "model: " + string(e.Kind)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindModelNotFound:
		return ErrModelNotFound
	case KindModelLoadFailed:
		return ErrModelLoadFailed
	case KindSpeakerModelLoadFailed:
		return ErrSpeakerModelLoadFailed
	}
	return nil
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf returns the Kind carried by err, or "" when err is not a construction error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func (k Kind) String() string { return string(k) }
