package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voskcore/internal/envvar"
)

func TestDirResolver_Resolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "model", "am"), 0o755))

	r := NewDirResolver(root)

	path, err := r.Resolve("model")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "model"), path)

	path, err = r.Resolve("model/am")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "model", "am"), path)
}

func TestDirResolver_Missing(t *testing.T) {
	r := NewDirResolver(t.TempDir())

	_, err := r.Resolve("missing-model")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirResolver_OutsideRoot(t *testing.T) {
	r := NewDirResolver(t.TempDir())

	for _, name := range []string{"../model", "", "a/../../b"} {
		_, err := r.Resolve(name)
		assert.ErrorIs(t, err, ErrOutsideRoot, name)
	}
}

func TestDefaultRoot_Env(t *testing.T) {
	t.Setenv(envvar.VoskcoreBundleRoot, "/app/resources")

	assert.Equal(t, "/app/resources", DefaultRoot())
	assert.Equal(t, "/app/resources", NewDirResolver("").Root)
}

func TestResolverFunc(t *testing.T) {
	var r Resolver = ResolverFunc(func(name string) (string, error) {
		return "/fixed/" + name, nil
	})

	path, err := r.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, "/fixed/x", path)
}

func TestResolveRoot_Precedence(t *testing.T) {
	t.Setenv(envvar.VoskcoreBundleRoot, "")

	assert.Equal(t, "/cfg/resources", ResolveRoot("/cfg/resources"))
	assert.Equal(t, filepath.Base(DefaultRoot()), "resources")

	t.Setenv(envvar.VoskcoreBundleRoot, "/env/resources")
	assert.Equal(t, "/env/resources", ResolveRoot("/cfg/resources"))
	assert.Equal(t, "/env/resources", ResolveRoot(""))
}
