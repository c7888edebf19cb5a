package model

import (
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ekisa-team/voskcore/internal/xfs"
	"github.com/ekisa-team/voskcore/native"
)

// Handle owns one loaded acoustic model and, optionally, one speaker model.
// A Handle is not meant to be shared: the caller that created it closes it.
type Handle struct {
	path        string
	speakerPath string
	provider    native.Provider

	res     *resources
	cleanup runtime.Cleanup
	closed  atomic.Bool
}

// resources holds the native references separately from the Handle so the
// runtime cleanup can release them without keeping the Handle reachable.
type resources struct {
	library  native.Library
	acoustic native.Ref
	speaker  native.Ref
	once     sync.Once
}

func (r *resources) release() {
	r.once.Do(func() {
		if r.acoustic != nil {
			r.library.ReleaseAcousticModel(r.acoustic)
		}
		if r.speaker != nil {
			r.library.ReleaseSpeakerModel(r.speaker)
		}
	})
}

// New resolves name to a model directory and loads it. A leading "file://" is
// ignored; absolute paths are used as is and anything else is resolved against
// the bundled resource root.
//
// If a directory named by the speaker dir option exists inside the model
// directory it is loaded as the speaker model. On any failure every native
// reference acquired so far is released and a *Error is returned.
func New(name string, opts ...Option) (*Handle, error) {
	o := newOptions(opts)
	lib := o.library

	path, err := Resolve(name, o.resolver)
	if err != nil {
		o.logger.Warn("Model directory not found", "name", name, "error", err)
		return nil, err
	}

	var u unwinder
	defer u.unwind()

	res := &resources{library: lib}

	acoustic, err := lib.LoadAcousticModel(path)
	if err == nil && acoustic == nil {
		err = native.ErrLoadFailed
	}
	if err != nil {
		o.logger.Error("Failed to load model", "path", path, "provider", lib.Provider(), "error", err)
		return nil, newError(KindModelLoadFailed, path, err)
	}
	res.acoustic = acoustic
	u.push(func() { lib.ReleaseAcousticModel(acoustic) })

	var speakerPath string
	if o.speakerDir != "" {
		candidate := filepath.Join(path, o.speakerDir)
		if xfs.IsDir(candidate) {
			speaker, err := lib.LoadSpeakerModel(candidate)
			if err == nil && speaker == nil {
				err = native.ErrLoadFailed
			}
			if err != nil {
				o.logger.Error("Failed to load speaker model", "path", candidate, "provider", lib.Provider(), "error", err)
				return nil, newError(KindSpeakerModelLoadFailed, candidate, err)
			}
			res.speaker = speaker
			speakerPath = candidate
			u.push(func() { lib.ReleaseSpeakerModel(speaker) })
		} else {
			o.logger.Debug("No speaker model found", "path", candidate)
		}
	}

	u.disarm()

	h := &Handle{
		path:        path,
		speakerPath: speakerPath,
		provider:    lib.Provider(),
		res:         res,
	}
	h.cleanup = runtime.AddCleanup(h, (*resources).release, res)

	o.logger.Info("Model loaded", "path", path, "speaker_model", speakerPath != "", "provider", h.provider)
	return h, nil
}

// Path returns the resolved model directory.
func (h *Handle) Path() string {
	return h.path
}

// SpeakerPath returns the speaker model directory, or "" when none was loaded.
func (h *Handle) SpeakerPath() string {
	return h.speakerPath
}

// Provider returns the native library that loaded the models.
func (h *Handle) Provider() native.Provider {
	return h.provider
}

// AcousticModel returns the native acoustic model reference. It returns nil
// once the handle is closed.
func (h *Handle) AcousticModel() native.Ref {
	if h.closed.Load() {
		return nil
	}
	return h.res.acoustic
}

// SpeakerModel returns the native speaker model reference, if one was loaded
// and the handle is still open.
func (h *Handle) SpeakerModel() (native.Ref, bool) {
	if h.closed.Load() || h.res.speaker == nil {
		return nil, false
	}
	return h.res.speaker, true
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}

// Close releases the native models. It is safe to call more than once; only
// the first call releases anything.
func (h *Handle) Close() error {
	if h.closed.Swap(true) {
		return nil
	}

	h.cleanup.Stop()
	h.res.release()
	return nil
}
