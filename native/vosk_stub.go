//go:build !vosk

package native

// Available reports whether a native library is compiled in.
func Available() bool { return false }

// Default returns a library that fails every load when libvosk is not built in.
func Default() Library { return Unavailable{} }

// Unavailable is a stub that satisfies Library when the native backend is absent.
type Unavailable struct{}

func (Unavailable) Provider() Provider { return ProviderVosk }

func (Unavailable) LoadAcousticModel(string) (Ref, error) { return nil, ErrNativeUnavailable }

func (Unavailable) ReleaseAcousticModel(Ref) {}

func (Unavailable) LoadSpeakerModel(string) (Ref, error) { return nil, ErrNativeUnavailable }

func (Unavailable) ReleaseSpeakerModel(Ref) {}

func (Unavailable) SetLogLevel(int) {}
