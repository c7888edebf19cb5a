package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ekisa-team/voskcore/bundle"
)

var errNotDir = errors.New("not a directory")

// FileScheme is stripped from model names before resolution.
const FileScheme = "file://"

// StripScheme removes a leading "file://" from name. It is idempotent for
// names that do not start with a second scheme prefix.
func StripScheme(name string) string {
	return strings.TrimPrefix(name, FileScheme)
}

// Resolve turns a caller-supplied model location into an existing model
// directory. Absolute paths are used verbatim; anything else is looked up
// through resolver against the bundled resource root.
func Resolve(name string, resolver bundle.Resolver) (string, error) {
	path := StripScheme(name)

	if filepath.IsAbs(path) {
		path = filepath.Clean(path)
	} else {
		if resolver == nil {
			return "", newError(KindModelNotFound, path, bundle.ErrNotFound)
		}

		resolved, err := resolver.Resolve(path)
		if err != nil {
			return "", newError(KindModelNotFound, path, err)
		}
		path = resolved
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", newError(KindModelNotFound, path, err)
	}
	if !info.IsDir() {
		return "", newError(KindModelNotFound, path, errNotDir)
	}

	return path, nil
}
