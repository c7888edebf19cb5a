//go:build vosk

package native

import (
	"fmt"
	"reflect"

	vosk "github.com/alphacep/vosk-api/go"
)

// Available reports whether a native library is compiled in.
func Available() bool { return true }

// Default returns the Vosk library.
func Default() Library { return Vosk{} }

// Vosk implements Library on top of libvosk.
type Vosk struct{}

// Provider implements Library.
func (Vosk) Provider() Provider { return ProviderVosk }

// LoadAcousticModel implements Library.
func (Vosk) LoadAcousticModel(dir string) (Ref, error) {
	m, err := vosk.NewModel(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if isNull(m) {
		return nil, fmt.Errorf("%w: vosk_model_new returned NULL for %s", ErrLoadFailed, dir)
	}
	return m, nil
}

// ReleaseAcousticModel implements Library.
func (Vosk) ReleaseAcousticModel(ref Ref) {
	if m, ok := ref.(*vosk.VoskModel); ok && m != nil {
		m.Free()
	}
}

// LoadSpeakerModel implements Library.
func (Vosk) LoadSpeakerModel(dir string) (Ref, error) {
	m, err := vosk.NewSpkModel(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if isNull(m) {
		return nil, fmt.Errorf("%w: vosk_spk_model_new returned NULL for %s", ErrLoadFailed, dir)
	}
	return m, nil
}

// ReleaseSpeakerModel implements Library.
func (Vosk) ReleaseSpeakerModel(ref Ref) {
	if m, ok := ref.(*vosk.VoskSpkModel); ok && m != nil {
		m.Free()
	}
}

// SetLogLevel implements Library.
func (Vosk) SetLogLevel(level int) {
	vosk.SetLogLevel(level)
}

// isNull reports whether the binding wrapper holds a NULL C pointer. The
// binding returns a wrapper and no error even when the C loader fails, so the
// unexported pointer in its first field is inspected directly.
func isNull(wrapper any) bool {
	v := reflect.ValueOf(wrapper)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return true
	}

	elem := v.Elem()
	if elem.Kind() != reflect.Struct || elem.NumField() == 0 {
		return false
	}

	f := elem.Field(0)
	switch f.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return f.IsNil()
	}
	return false
}
