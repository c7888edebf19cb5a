package native

// Provider is a string identifier for a native library provider.
type Provider string

const (
	// ProviderVosk is the Vosk offline recognition library.
	ProviderVosk Provider = "vosk"
)

// Ref is an opaque reference to a resource owned by a native library.
// It is only ever passed back to the Library that produced it.
type Ref any

// Library is the boundary to a native recognition library that can load and
// release acoustic and speaker models.
type Library interface {
	// Provider returns the library identifier.
	Provider() Provider

	// LoadAcousticModel loads the acoustic/language model stored in dir.
	LoadAcousticModel(dir string) (Ref, error)

	// ReleaseAcousticModel frees a reference returned by LoadAcousticModel.
	ReleaseAcousticModel(ref Ref)

	// LoadSpeakerModel loads the speaker identification model stored in dir.
	LoadSpeakerModel(dir string) (Ref, error)

	// ReleaseSpeakerModel frees a reference returned by LoadSpeakerModel.
	ReleaseSpeakerModel(ref Ref)

	// SetLogLevel sets the verbosity of the native library. Negative values
	// disable native logging.
	SetLogLevel(level int)
}
