package model

import (
	"log/slog"

	"github.com/ekisa-team/voskcore/bundle"
	"github.com/ekisa-team/voskcore/native"
)

// DefaultSpeakerDir is the directory, inside the model directory, probed for
// an optional speaker identification model.
const DefaultSpeakerDir = "vosk-model-spk-0.4"

type options struct {
	library    native.Library
	resolver   bundle.Resolver
	speakerDir string
	logger     *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithLibrary sets the native library used to load and release models.
func WithLibrary(lib native.Library) Option {
	return func(o *options) { o.library = lib }
}

// WithResolver sets the resolver for names that are not absolute paths.
func WithResolver(r bundle.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithSpeakerDir overrides DefaultSpeakerDir. An empty dir disables speaker
// model loading.
func WithSpeakerDir(dir string) Option {
	return func(o *options) { o.speakerDir = dir }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) *options {
	o := &options{
		speakerDir: DefaultSpeakerDir,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.library == nil {
		o.library = native.Default()
	}
	if o.resolver == nil {
		o.resolver = bundle.NewDirResolver("")
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
