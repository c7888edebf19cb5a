package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voskcore/internal/envvar"
	"github.com/ekisa-team/voskcore/native"
)

const validConfig = `
version: "1"
bundle:
  root: /app/resources
storage:
  models_dir: /var/lib/voskcore/models
model:
  name: vosk-model-small-en-us-0.15
  speaker_dir: spk
  unpack: true
native:
  provider: vosk
  log_level: -1
server:
  grpc_port: 6000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, validConfig), "")
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "/app/resources", cfg.Bundle.Root)
	assert.Equal(t, "/var/lib/voskcore/models", cfg.Storage.ModelsDir)
	assert.Equal(t, "vosk-model-small-en-us-0.15", cfg.Model.Name)
	require.NotNil(t, cfg.Model.SpeakerDir)
	assert.Equal(t, "spk", *cfg.Model.SpeakerDir)
	assert.True(t, cfg.Model.Unpack)
	assert.Equal(t, native.ProviderVosk, cfg.Native.ProviderOrDefault())
	assert.Equal(t, -1, cfg.Native.LogLevel)
	assert.Equal(t, 6000, cfg.Server.GRPCPort)
}

func TestLoadAndValidate_Minimal(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, "version: \"1\"\nmodel:\n  name: model\n"), "")
	require.NoError(t, err)

	assert.Nil(t, cfg.Model.SpeakerDir)
	assert.Equal(t, native.ProviderVosk, cfg.Native.ProviderOrDefault())
}

func TestLoadAndValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing model", "version: \"1\"\n"},
		{"empty name", "version: \"1\"\nmodel:\n  name: \"\"\n"},
		{"unknown field", "version: \"1\"\nmodel:\n  name: m\nextra: 1\n"},
		{"bad port", "version: \"1\"\nmodel:\n  name: m\nserver:\n  grpc_port: 70000\n"},
		{"bad yaml", "version: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAndValidate(writeConfig(t, tt.content), "")
			assert.Error(t, err)
		})
	}
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAndValidate_ExternalSchema(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(embeddedSchema), 0o644))

	cfg, err := LoadAndValidate(writeConfig(t, validConfig), schemaPath)
	require.NoError(t, err)
	assert.Equal(t, "vosk-model-small-en-us-0.15", cfg.Model.Name)
}

func TestResolveModelsPath(t *testing.T) {
	t.Setenv(envvar.VoskcoreModelsPath, "")

	assert.Equal(t, DefaultModelsPath(), ResolveModelsPath(nil))
	assert.Equal(t, "/cfg/models", ResolveModelsPath(&Config{Storage: StorageConfig{ModelsDir: "/cfg/models"}}))

	t.Setenv(envvar.VoskcoreModelsPath, "/env/models")
	assert.Equal(t, "/env/models", ResolveModelsPath(&Config{Storage: StorageConfig{ModelsDir: "/cfg/models"}}))
}

func TestResolveGRPCPort(t *testing.T) {
	t.Setenv(envvar.VoskcoreGRPCPort, "")

	assert.Equal(t, DefaultGRPCPort, ResolveGRPCPort(nil))
	assert.Equal(t, 7000, ResolveGRPCPort(&Config{Server: ServerConfig{GRPCPort: 7000}}))

	t.Setenv(envvar.VoskcoreGRPCPort, "7100")
	assert.Equal(t, 7100, ResolveGRPCPort(&Config{Server: ServerConfig{GRPCPort: 7000}}))

	t.Setenv(envvar.VoskcoreGRPCPort, "not-a-port")
	assert.Equal(t, 7000, ResolveGRPCPort(&Config{Server: ServerConfig{GRPCPort: 7000}}))
}
