// Package nativetest provides an in-memory native.Library that counts every
// load and release so tests can assert ownership rules.
package nativetest

import (
	"fmt"
	"sync"

	"github.com/ekisa-team/voskcore/native"
)

// Model is the reference handed out by Library.
type Model struct {
	Kind string
	Path string
	ID   int
}

// Library is a counting fake of native.Library.
type Library struct {
	// FailAcoustic and FailSpeaker make the corresponding loader fail for
	// the listed directories.
	FailAcoustic map[string]bool
	FailSpeaker  map[string]bool

	mu       sync.Mutex
	nextID   int
	loads    map[string]int
	releases map[string]int
	freed    map[int]int
	logLevel int
}

// New creates an empty counting library.
func New() *Library {
	return &Library{
		FailAcoustic: map[string]bool{},
		FailSpeaker:  map[string]bool{},
		loads:        map[string]int{},
		releases:     map[string]int{},
		freed:        map[int]int{},
	}
}

// Provider implements native.Library.
func (l *Library) Provider() native.Provider { return "fake" }

// LoadAcousticModel implements native.Library.
func (l *Library) LoadAcousticModel(dir string) (native.Ref, error) {
	return l.load("acoustic", dir, l.FailAcoustic[dir])
}

// ReleaseAcousticModel implements native.Library.
func (l *Library) ReleaseAcousticModel(ref native.Ref) { l.release("acoustic", ref) }

// LoadSpeakerModel implements native.Library.
func (l *Library) LoadSpeakerModel(dir string) (native.Ref, error) {
	return l.load("speaker", dir, l.FailSpeaker[dir])
}

// ReleaseSpeakerModel implements native.Library.
func (l *Library) ReleaseSpeakerModel(ref native.Ref) { l.release("speaker", ref) }

// SetLogLevel implements native.Library.
func (l *Library) SetLogLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logLevel = level
}

func (l *Library) load(kind, dir string, fail bool) (native.Ref, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("%w: %s model at %s", native.ErrLoadFailed, kind, dir)
	}

	l.nextID++
	l.loads[kind]++
	return &Model{Kind: kind, Path: dir, ID: l.nextID}, nil
}

func (l *Library) release(kind string, ref native.Ref) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.releases[kind]++
	if m, ok := ref.(*Model); ok {
		l.freed[m.ID]++
	}
}

// Loads returns how many successful loads of kind ("acoustic" or "speaker") happened.
func (l *Library) Loads(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loads[kind]
}

// Releases returns how many releases of kind happened.
func (l *Library) Releases(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.releases[kind]
}

// Live returns the number of loaded references not yet released.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	live := 0
	for kind, n := range l.loads {
		live += n - l.releases[kind]
	}
	return live
}

// DoubleFrees returns the number of references released more than once.
func (l *Library) DoubleFrees() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, count := range l.freed {
		if count > 1 {
			n++
		}
	}
	return n
}

// LogLevel returns the last level passed to SetLogLevel.
func (l *Library) LogLevel() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.logLevel
}
