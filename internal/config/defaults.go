package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ekisa-team/voskcore/internal/envvar"
	"github.com/ekisa-team/voskcore/internal/xfs"
)

// DefaultGRPCPort is used when neither the environment nor the config sets a port.
const DefaultGRPCPort = 50071

// DefaultConfigPath returns the default path for the voskcore config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "voskcore", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "voskcore")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "voskcore")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "voskcore")
		}
		return filepath.Join(home, ".config", "voskcore")
	}
}

// DefaultModelsPath returns the default path for the writable models directory.
func DefaultModelsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "voskcore", "models")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "voskcore", "models")
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "voskcore", "models")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "voskcore", "models")
		}
		return filepath.Join(home, ".local", "share", "voskcore", "models")
	}
}

// ResolveModelsPath returns the path to the models directory.
// Precedence:
// 1. VOSKCORE_MODELS_PATH environment variable.
// 2. ModelsDir field in the config.
// 3. Default models path.
func ResolveModelsPath(cfg *Config) string {
	if p := os.Getenv(envvar.VoskcoreModelsPath); p != "" {
		return xfs.ExpandTilde(p)
	}
	if cfg != nil && cfg.Storage.ModelsDir != "" {
		return xfs.ExpandTilde(cfg.Storage.ModelsDir)
	}
	return DefaultModelsPath()
}

// ResolveGRPCPort returns the gRPC port.
// Precedence:
// 1. VOSKCORE_GRPC_PORT environment variable.
// 2. Server.GRPCPort in the config.
// 3. DefaultGRPCPort.
func ResolveGRPCPort(cfg *Config) int {
	if p := os.Getenv(envvar.VoskcoreGRPCPort); p != "" {
		if port, err := strconv.Atoi(p); err == nil && port > 0 {
			return port
		}
	}
	if cfg != nil && cfg.Server.GRPCPort > 0 {
		return cfg.Server.GRPCPort
	}
	return DefaultGRPCPort
}
