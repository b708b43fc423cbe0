package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/zircon-gn/internal/logger"
)

const (
	// markerSuffix is appended to the output directory name to build the marker name.
	markerSuffix = ".zircon-gn.lock"
	// markerPermissions is used when creating the marker file.
	markerPermissions = 0o644
	// markerDirPermissions is used when the output parent directory does not exist yet.
	markerDirPermissions = 0o755
	// markerAttempts bounds stale marker removal retries.
	markerAttempts = 2
)

// ErrGenerationRunning is returned when another live process generates into the same directory.
var ErrGenerationRunning = errors.New("another generation is running for this output directory")

// Marker is the run marker held while an output directory is regenerated.
type Marker struct {
	path string
}

// MarkerPath returns the run marker location for outDir, .<out>.zircon-gn.lock next to it.
func MarkerPath(outDir string) string {
	outDir = filepath.Clean(outDir)

	return filepath.Join(filepath.Dir(outDir), "."+filepath.Base(outDir)+markerSuffix)
}

// AcquireMarker creates the run marker of outDir holding the current PID.
// A marker left behind by a process that no longer runs is replaced.
func AcquireMarker(ctx context.Context, outDir string) (*Marker, error) {
	path := MarkerPath(outDir)

	if err := os.MkdirAll(filepath.Dir(path), markerDirPermissions); err != nil {
		return nil, fmt.Errorf("create run marker directory: %w", err)
	}

	for range markerAttempts {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, markerPermissions)
		if err == nil {
			_, writeErr := f.WriteString(strconv.Itoa(os.Getpid()))
			if err = errors.Join(writeErr, f.Close()); err != nil {
				_ = os.Remove(path)

				return nil, fmt.Errorf("write run marker: %w", err)
			}

			return &Marker{path: path}, nil
		}

		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("create run marker: %w", err)
		}

		stale, err := isStaleMarker(path)
		if err != nil {
			return nil, err
		}

		if !stale {
			return nil, fmt.Errorf("%w: %s", ErrGenerationRunning, path)
		}

		logger.InfoKV(ctx, "Removing stale run marker", "path", path)

		if err = os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove stale run marker: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrGenerationRunning, path)
}

// Path returns the marker file location.
func (m *Marker) Path() string {
	return m.path
}

// Release removes the marker.
func (m *Marker) Release(ctx context.Context) {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to remove run marker", "path", m.path, "error", err)
	}
}

// isStaleMarker reports whether the process recorded in the marker is gone.
func isStaleMarker(path string) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("read run marker: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil || pid <= 0 {
		return true, nil
	}

	if pid == os.Getpid() {
		return false, nil
	}

	process, err := ps.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("look up process %d: %w", pid, err)
	}

	return process == nil, nil
}
