package model

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voskcore/bundle"
	"github.com/ekisa-team/voskcore/native"
	"github.com/ekisa-team/voskcore/native/nativetest"
)

// --- Helpers ---

type fixture struct {
	root string
	lib  *nativetest.Library
	opts []Option
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	lib := nativetest.New()

	return &fixture{
		root: root,
		lib:  lib,
		opts: []Option{
			WithLibrary(lib),
			WithResolver(bundle.NewDirResolver(root)),
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		},
	}
}

func (f *fixture) mkdir(t *testing.T, parts ...string) string {
	t.Helper()

	dir := filepath.Join(append([]string{f.root}, parts...)...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

// --- Tests ---

func TestNew_BundleRelative(t *testing.T) {
	f := newFixture(t)
	dir := f.mkdir(t, "model")

	h, err := New("model", f.opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	assert.Equal(t, dir, h.Path())
	assert.NotNil(t, h.AcousticModel())
	_, ok := h.SpeakerModel()
	assert.False(t, ok)
	assert.Empty(t, h.SpeakerPath())
	assert.Equal(t, native.Provider("fake"), h.Provider())
}

func TestNew_AbsolutePath(t *testing.T) {
	f := newFixture(t)
	dir := f.mkdir(t, "abs", "path", "to", "model")

	h, err := New(dir, f.opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	assert.Equal(t, dir, h.Path())
	assert.NotNil(t, h.AcousticModel())
}

func TestNew_FileSchemeMatchesPlainPath(t *testing.T) {
	f := newFixture(t)
	dir := f.mkdir(t, "abs", "path", "to", "model")

	withScheme, err := New("file://"+dir, f.opts...)
	require.NoError(t, err)
	plain, err := New(dir, f.opts...)
	require.NoError(t, err)

	assert.Equal(t, plain.Path(), withScheme.Path())
	assert.Equal(t, dir, withScheme.Path())

	require.NoError(t, withScheme.Close())
	require.NoError(t, plain.Close())
	assert.Equal(t, 2, f.lib.Loads("acoustic"))
	assert.Equal(t, 2, f.lib.Releases("acoustic"))
}

func TestNew_RelativeMatchesAbsolute(t *testing.T) {
	f := newFixture(t)
	dir := f.mkdir(t, "models", "en")

	rel, err := New("models/en", f.opts...)
	require.NoError(t, err)
	defer rel.Close()

	abs, err := New(dir, f.opts...)
	require.NoError(t, err)
	defer abs.Close()

	assert.Equal(t, abs.Path(), rel.Path())
}

func TestNew_ModelNotFound(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input string
	}{
		{"missing bundle entry", "missing-model"},
		{"missing absolute", filepath.Join(f.root, "nope")},
		{"missing with scheme", "file://" + filepath.Join(f.root, "nope")},
		{"escapes bundle root", "../outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.input, f.opts...)
			assert.Nil(t, h)
			assert.ErrorIs(t, err, ErrModelNotFound)
			assert.Equal(t, KindModelNotFound, KindOf(err))
		})
	}

	assert.Zero(t, f.lib.Loads("acoustic"))
	assert.Zero(t, f.lib.Live())
}

func TestNew_PathIsFile(t *testing.T) {
	f := newFixture(t)
	file := filepath.Join(f.root, "model.bin")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file, f.opts...)
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Zero(t, f.lib.Loads("acoustic"))
}

func TestNew_ModelLoadFailed(t *testing.T) {
	f := newFixture(t)
	dir := f.mkdir(t, "model")
	f.mkdir(t, "model", DefaultSpeakerDir)
	f.lib.FailAcoustic[dir] = true

	h, err := New("model", f.opts...)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, ErrModelLoadFailed)
	assert.ErrorIs(t, err, native.ErrLoadFailed)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, dir, e.Path)

	assert.Zero(t, f.lib.Loads("speaker"), "speaker model must not be attempted")
	assert.Zero(t, f.lib.Live())
}

func TestNew_SpeakerModel(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "model")
	spk := f.mkdir(t, "model", DefaultSpeakerDir)

	h, err := New("model", f.opts...)
	require.NoError(t, err)

	ref, ok := h.SpeakerModel()
	require.True(t, ok)
	assert.Equal(t, spk, ref.(*nativetest.Model).Path)
	assert.Equal(t, spk, h.SpeakerPath())

	require.NoError(t, h.Close())
	assert.Equal(t, 1, f.lib.Releases("acoustic"))
	assert.Equal(t, 1, f.lib.Releases("speaker"))
	assert.Zero(t, f.lib.Live())
}

func TestNew_SpeakerModelLoadFailed(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "model")
	spk := f.mkdir(t, "model", DefaultSpeakerDir)
	f.lib.FailSpeaker[spk] = true

	h, err := New("model", f.opts...)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, ErrSpeakerModelLoadFailed)
	assert.Equal(t, KindSpeakerModelLoadFailed, KindOf(err))

	// Exactly one release per successful load.
	assert.Equal(t, 1, f.lib.Loads("acoustic"))
	assert.Equal(t, 1, f.lib.Releases("acoustic"))
	assert.Zero(t, f.lib.Loads("speaker"))
	assert.Zero(t, f.lib.Releases("speaker"))
	assert.Zero(t, f.lib.Live())
}

func TestNew_CustomSpeakerDir(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "model", DefaultSpeakerDir)
	spk := f.mkdir(t, "model", "spk")

	h, err := New("model", append(f.opts, WithSpeakerDir("spk"))...)
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, spk, h.SpeakerPath())
}

func TestNew_SpeakerDisabled(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "model", DefaultSpeakerDir)

	h, err := New("model", append(f.opts, WithSpeakerDir(""))...)
	require.NoError(t, err)
	defer h.Close()

	_, ok := h.SpeakerModel()
	assert.False(t, ok)
	assert.Zero(t, f.lib.Loads("speaker"))
}

func TestHandle_CloseIdempotent(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "model", DefaultSpeakerDir)

	h, err := New("model", f.opts...)
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	h.res.release()

	assert.True(t, h.Closed())
	assert.Nil(t, h.AcousticModel())
	_, ok := h.SpeakerModel()
	assert.False(t, ok)

	assert.Equal(t, 1, f.lib.Releases("acoustic"))
	assert.Equal(t, 1, f.lib.Releases("speaker"))
	assert.Zero(t, f.lib.DoubleFrees())
}

func TestHandle_ReleasedWhenUnreachable(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "model")

	func() {
		_, err := New("model", f.opts...)
		require.NoError(t, err)
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return f.lib.Releases("acoustic") == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, f.lib.DoubleFrees())
}

// MockLibrary checks the exact native call sequence.
type MockLibrary struct {
	mock.Mock
}

func (m *MockLibrary) Provider() native.Provider { return "mock" }

func (m *MockLibrary) LoadAcousticModel(dir string) (native.Ref, error) {
	args := m.Called(dir)
	return args.Get(0), args.Error(1)
}

func (m *MockLibrary) ReleaseAcousticModel(ref native.Ref) { m.Called(ref) }

func (m *MockLibrary) LoadSpeakerModel(dir string) (native.Ref, error) {
	args := m.Called(dir)
	return args.Get(0), args.Error(1)
}

func (m *MockLibrary) ReleaseSpeakerModel(ref native.Ref) { m.Called(ref) }

func (m *MockLibrary) SetLogLevel(level int) { m.Called(level) }

func TestNew_NilReferenceIsLoadFailure(t *testing.T) {
	f := newFixture(t)
	dir := f.mkdir(t, "model")

	lib := new(MockLibrary)
	lib.On("LoadAcousticModel", dir).Return(nil, nil).Once()

	_, err := New(dir, WithLibrary(lib), WithResolver(bundle.NewDirResolver(f.root)))
	assert.ErrorIs(t, err, ErrModelLoadFailed)
	assert.ErrorIs(t, err, native.ErrLoadFailed)

	lib.AssertExpectations(t)
	lib.AssertNotCalled(t, "ReleaseAcousticModel", mock.Anything)
}

func TestNew_SpeakerFailureReleasesAcoustic(t *testing.T) {
	f := newFixture(t)
	dir := f.mkdir(t, "model")
	spk := f.mkdir(t, "model", DefaultSpeakerDir)

	acoustic := &struct{ name string }{"am"}
	lib := new(MockLibrary)
	lib.On("LoadAcousticModel", dir).Return(acoustic, nil).Once()
	lib.On("LoadSpeakerModel", spk).Return(nil, errors.New("corrupt")).Once()
	lib.On("ReleaseAcousticModel", acoustic).Return().Once()

	_, err := New(dir, WithLibrary(lib), WithResolver(bundle.NewDirResolver(f.root)))
	assert.ErrorIs(t, err, ErrSpeakerModelLoadFailed)
	assert.EqualError(t, err, "model: speaker model load failed: "+spk+": corrupt")

	lib.AssertExpectations(t)
}
