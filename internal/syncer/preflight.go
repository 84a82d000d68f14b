package syncer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkDestination verifies the staging directory is writable and the
// filesystem has at least minFreeMB megabytes available. A zero floor skips
// the free-space check.
func checkDestination(dir string, minFreeMB int64) error {
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("destination %s not writable: %w", dir, err)
	}

	if minFreeMB <= 0 {
		return nil
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return fmt.Errorf("statfs %s: %w", dir, err)
	}

	freeMB := int64(stat.Bavail) * stat.Bsize / (1024 * 1024)
	if freeMB < minFreeMB {
		return fmt.Errorf("destination %s has %d MB free, need at least %d MB", dir, freeMB, minFreeMB)
	}
	return nil
}
