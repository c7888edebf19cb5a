// Package bundle resolves names relative to the application's read-only
// bundled resource root.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ekisa-team/voskcore/internal/envvar"
	"github.com/ekisa-team/voskcore/internal/xfs"
)

// Error definitions for the bundle package.
var (
	ErrNotFound    = errors.New("bundle resource not found")
	ErrOutsideRoot = errors.New("bundle resource escapes the bundle root")
)

// Resolver maps a bundle-relative name to an absolute path.
type Resolver interface {
	Resolve(relativeName string) (string, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(relativeName string) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(relativeName string) (string, error) {
	return f(relativeName)
}

// DirResolver resolves names against a directory on disk.
type DirResolver struct {
	Root string
}

// NewDirResolver creates a resolver rooted at root. An empty root selects DefaultRoot.
func NewDirResolver(root string) *DirResolver {
	if root == "" {
		root = DefaultRoot()
	}

	abs, err := filepath.Abs(xfs.ExpandTilde(root))
	if err != nil {
		abs = filepath.Clean(root)
	}

	return &DirResolver{Root: abs}
}

// Resolve implements Resolver.
func (r *DirResolver) Resolve(relativeName string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(relativeName)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, relativeName)
	}

	path := filepath.Join(r.Root, filepath.FromSlash(relativeName))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}

	return path, nil
}

// DefaultRoot returns the bundled resource root when nothing is configured.
// It is equivalent to ResolveRoot("").
func DefaultRoot() string {
	return ResolveRoot("")
}

// ResolveRoot returns the bundled resource root.
// Precedence:
// 1. VOSKCORE_BUNDLE_ROOT environment variable.
// 2. configured (bundle.root in the config).
// 3. "resources" next to the running executable.
// 4. "resources" in the working directory.
func ResolveRoot(configured string) string {
	if p := os.Getenv(envvar.VoskcoreBundleRoot); p != "" {
		return xfs.ExpandTilde(p)
	}

	if configured != "" {
		return xfs.ExpandTilde(configured)
	}

	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), "resources")
	}

	return "resources"
}
