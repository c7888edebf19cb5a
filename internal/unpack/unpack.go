// Package unpack copies a model shipped in the read-only bundle into a
// writable models directory so the native library can open it from disk.
package unpack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// MarkerFilename identifies a model version. A target whose marker matches the
// source marker is considered up to date.
const MarkerFilename = "uuid"

// ErrNotDir is returned when the source is not a directory.
var ErrNotDir = errors.New("unpack: source is not a directory")

// Unpack copies src into targetRoot/<base of src>. It returns the target path
// and whether the target was already up to date.
func Unpack(ctx context.Context, src, targetRoot string) (string, bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", false, fmt.Errorf("unpack: %w", err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("%w: %s", ErrNotDir, src)
	}

	target := filepath.Join(targetRoot, filepath.Base(src))

	if upToDate(src, target) {
		slog.Info("Model already unpacked and up-to-date (marker match), skipping", "source", src, "path", target)
		return target, true, nil
	}

	if err := os.MkdirAll(targetRoot, 0o755); err != nil {
		return "", false, fmt.Errorf("unpack: failed to create directory: %w", err)
	}

	tmp, err := os.MkdirTemp(targetRoot, "."+filepath.Base(src)+"-")
	if err != nil {
		return "", false, fmt.Errorf("unpack: failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	slog.Info("Unpacking model", "source", src, "path", target)

	if err := copyTree(ctx, src, tmp); err != nil {
		return "", false, err
	}

	if err := os.RemoveAll(target); err != nil {
		return "", false, fmt.Errorf("unpack: failed to remove stale model: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", false, fmt.Errorf("unpack: failed to move model into place: %w", err)
	}

	slog.Info("Model unpacked successfully", "source", src, "path", target)
	return target, false, nil
}

// upToDate reports whether target holds the same marker as src. A source
// without a marker is always copied.
func upToDate(src, target string) bool {
	want, err := os.ReadFile(filepath.Join(src, MarkerFilename))
	if err != nil {
		return false
	}

	got, err := os.ReadFile(filepath.Join(target, MarkerFilename))
	if err != nil {
		slog.Debug("Marker file missing or unreadable", "path", target, "error", err)
		return false
	}

	if !bytes.Equal(bytes.TrimSpace(want), bytes.TrimSpace(got)) {
		slog.Info("Model marker changed, will unpack again",
			"path", target,
			"expected", string(bytes.TrimSpace(want)),
			"actual", string(bytes.TrimSpace(got)))
		return false
	}

	return true
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("unpack canceled: %w", err)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(out, 0o755)
		case d.Type().IsRegular():
			return copyFile(path, out)
		default:
			slog.Warn("Skipping non-regular file", "path", path)
			return nil
		}
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("unpack: failed to copy %s: %w", src, err)
	}

	return out.Close()
}
