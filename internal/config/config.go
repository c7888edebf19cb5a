package config

import "github.com/ekisa-team/voskcore/native"

// Config holds the main configuration for the application.
type Config struct {
	Version string        `json:"version"           yaml:"version"`
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	Bundle  BundleConfig  `json:"bundle,omitempty"  yaml:"bundle,omitempty"`
	Model   ModelConfig   `json:"model"             yaml:"model"`
	Native  NativeConfig  `json:"native,omitempty"  yaml:"native,omitempty"`
	Server  ServerConfig  `json:"server,omitempty"  yaml:"server,omitempty"`
}

// StorageConfig holds configuration for the writable models directory.
type StorageConfig struct {
	ModelsDir string `json:"models_dir,omitempty" yaml:"models_dir,omitempty"`
}

// BundleConfig holds configuration for the read-only bundled resources.
type BundleConfig struct {
	Root string `json:"root,omitempty" yaml:"root,omitempty"`
}

// ModelConfig describes the model to load.
type ModelConfig struct {
	// Name is an absolute path, a file:// URL or a bundle-relative name.
	Name string `json:"name" yaml:"name"`

	// SpeakerDir is the directory inside the model probed for a speaker
	// model. Nil selects the default; an empty string disables it.
	SpeakerDir *string `json:"speaker_dir,omitempty" yaml:"speaker_dir,omitempty"`

	// Unpack copies a bundled model into Storage.ModelsDir before loading.
	Unpack bool `json:"unpack,omitempty" yaml:"unpack,omitempty"`
}

// NativeConfig selects and tunes the native library.
type NativeConfig struct {
	Provider native.Provider `json:"provider,omitempty"  yaml:"provider,omitempty"`
	LogLevel int             `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// ServerConfig holds configuration for the gRPC health server.
type ServerConfig struct {
	GRPCPort int `json:"grpc_port,omitempty" yaml:"grpc_port,omitempty"`
}

// ProviderOrDefault returns the configured provider, defaulting to Vosk.
func (n NativeConfig) ProviderOrDefault() native.Provider {
	if n.Provider == "" {
		return native.ProviderVosk
	}
	return n.Provider
}
