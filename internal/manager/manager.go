// Package manager keeps at most one model loaded at a time, releasing the
// previous model before a new one is loaded.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/ekisa-team/voskcore/bundle"
	"github.com/ekisa-team/voskcore/internal/config"
	"github.com/ekisa-team/voskcore/internal/unpack"
	"github.com/ekisa-team/voskcore/model"
	"github.com/ekisa-team/voskcore/native"
)

// ErrNotLoaded is returned by Unload when no model is loaded.
var ErrNotLoaded = errors.New("manager: no model loaded")

// Request describes a model to load.
type Request struct {
	// Name is passed to model.New.
	Name string

	// SpeakerDir overrides model.DefaultSpeakerDir when non-nil.
	SpeakerDir *string

	// UnpackTo, when set, copies a bundled model there before loading it.
	UnpackTo string
}

// State is a snapshot of the manager.
type State struct {
	Status   Status     `json:"status"`
	Name     string     `json:"name,omitempty"`
	Path     string     `json:"path,omitempty"`
	Speaker  bool       `json:"speaker"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Manager orchestrates the lifecycle of a single model handle.
type Manager struct {
	library  native.Library
	resolver bundle.Resolver
	logger   *slog.Logger

	mu        sync.Mutex
	handle    *model.Handle
	state     State
	applied   *settings
	observers []func(State)
}

// settings is everything a config contributes to the loaded model. Two
// configs with equal settings load the same model the same way.
type settings struct {
	provider   native.Provider
	logLevel   int
	bundleRoot string
	name       string
	speakerDir string
	speakerSet bool
	unpackTo   string
}

func settingsFromConfig(cfg *config.Config) settings {
	req := RequestFromConfig(cfg)
	s := settings{
		provider:   cfg.Native.ProviderOrDefault(),
		logLevel:   cfg.Native.LogLevel,
		bundleRoot: bundle.ResolveRoot(cfg.Bundle.Root),
		name:       req.Name,
		unpackTo:   req.UnpackTo,
	}
	if req.SpeakerDir != nil {
		s.speakerDir = *req.SpeakerDir
		s.speakerSet = true
	}
	return s
}

// New creates a Manager that loads models through library and resolves
// bundle-relative names through resolver.
func New(library native.Library, resolver bundle.Resolver, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		library:  library,
		resolver: resolver,
		logger:   logger,
		state:    State{Status: StatusUnloaded},
	}
}

// FromConfig builds a Manager from cfg using the provider found in registry.
func FromConfig(cfg *config.Config, registry *native.Registry, logger *slog.Logger) (*Manager, error) {
	lib, err := registry.Get(cfg.Native.ProviderOrDefault())
	if err != nil {
		return nil, fmt.Errorf("manager: %w", err)
	}
	lib.SetLogLevel(cfg.Native.LogLevel)

	return New(lib, bundle.NewDirResolver(bundle.ResolveRoot(cfg.Bundle.Root)), logger), nil
}

// Apply makes the manager match cfg: it switches to the configured native
// library, log level and bundle root, then loads the configured model. It
// reports false without touching the loaded model when a model is already
// loaded with the same settings.
func (m *Manager) Apply(ctx context.Context, cfg *config.Config, registry *native.Registry) (bool, error) {
	next := settingsFromConfig(cfg)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil && m.applied != nil && *m.applied == next {
		m.logger.Debug("Model settings unchanged, skipping reload", "name", next.name)
		return false, nil
	}

	lib, err := registry.Get(next.provider)
	if err != nil {
		return false, fmt.Errorf("manager: %w", err)
	}
	lib.SetLogLevel(next.logLevel)

	m.library = lib
	m.resolver = bundle.NewDirResolver(next.bundleRoot)
	m.applied = nil

	if err := m.loadLocked(ctx, RequestFromConfig(cfg)); err != nil {
		return true, err
	}

	m.applied = &next
	return true, nil
}

// RequestFromConfig builds the load request described by cfg.
func RequestFromConfig(cfg *config.Config) Request {
	req := Request{
		Name:       cfg.Model.Name,
		SpeakerDir: cfg.Model.SpeakerDir,
	}
	if cfg.Model.Unpack {
		req.UnpackTo = config.ResolveModelsPath(cfg)
	}
	return req
}

// Observe registers fn to be called with every state change. fn is called
// with the manager lock held and must not call back into the Manager.
func (m *Manager) Observe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, fn)
	fn(m.state)
}

// Load releases the current model, if any, and loads the model described by req.
func (m *Manager) Load(ctx context.Context, req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.applied = nil
	return m.loadLocked(ctx, req)
}

func (m *Manager) loadLocked(ctx context.Context, req Request) error {
	if err := m.unloadLocked(); err != nil && !errors.Is(err, ErrNotLoaded) {
		return err
	}

	m.setState(State{Status: StatusLoading, Name: req.Name})

	name := req.Name
	if req.UnpackTo != "" {
		unpacked, err := m.unpack(ctx, req)
		if err != nil {
			m.setState(State{Status: StatusFailed, Name: req.Name, Error: err.Error()})
			return err
		}
		name = unpacked
	}

	opts := []model.Option{
		model.WithLibrary(m.library),
		model.WithResolver(m.resolver),
		model.WithLogger(m.logger),
	}
	if req.SpeakerDir != nil {
		opts = append(opts, model.WithSpeakerDir(*req.SpeakerDir))
	}

	h, err := model.New(name, opts...)
	if err != nil {
		m.setState(State{Status: StatusFailed, Name: req.Name, Error: err.Error()})
		return err
	}

	now := time.Now()
	m.handle = h
	m.setState(State{
		Status:   StatusLoaded,
		Name:     req.Name,
		Path:     h.Path(),
		Speaker:  h.SpeakerPath() != "",
		LoadedAt: &now,
	})

	return nil
}

// unpack copies a bundle-relative model into req.UnpackTo and returns the
// absolute path of the copy. Absolute names are not unpacked.
func (m *Manager) unpack(ctx context.Context, req Request) (string, error) {
	name := model.StripScheme(req.Name)
	if filepath.IsAbs(name) {
		return name, nil
	}

	src, err := m.resolver.Resolve(name)
	if err != nil {
		return "", &model.Error{Kind: model.KindModelNotFound, Path: name, Err: err}
	}

	target, _, err := unpack.Unpack(ctx, src, req.UnpackTo)
	if err != nil {
		return "", fmt.Errorf("manager: failed to unpack model %s: %w", name, err)
	}

	return target, nil
}

// Unload releases the current model.
func (m *Manager) Unload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.unloadLocked()
}

func (m *Manager) unloadLocked() error {
	if m.handle == nil {
		return ErrNotLoaded
	}

	prev := m.state
	m.setState(State{Status: StatusUnloading, Name: prev.Name, Path: prev.Path})

	err := m.handle.Close()
	m.handle = nil

	m.setState(State{Status: StatusUnloaded})
	m.logger.Info("Model unloaded", "name", prev.Name, "path", prev.Path)

	return err
}

// Current returns the loaded handle, or nil. The handle stays owned by the
// Manager and must not be closed by the caller.
func (m *Manager) Current() *model.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.handle
}

// State returns a snapshot of the manager state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Close releases the current model, if any.
func (m *Manager) Close() error {
	if err := m.Unload(); err != nil && !errors.Is(err, ErrNotLoaded) {
		return err
	}
	return nil
}

func (m *Manager) setState(s State) {
	m.state = s
	for _, fn := range m.observers {
		fn(s)
	}
}
