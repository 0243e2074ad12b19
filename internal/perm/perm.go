// Package perm flips the read-only state of individual files while
// preserving their execute bits.
package perm

import (
	"fmt"
	"io/fs"
	"os"
)

// Outcome reports what a Lock or Unlock call actually did.
type Outcome int

const (
	// AlreadyLocked means the file had no write bits before Lock ran.
	AlreadyLocked Outcome = iota
	// NewlyLocked means Lock removed at least one write bit.
	NewlyLocked
	// AlreadyUnlocked means the owner could already write before Unlock ran.
	AlreadyUnlocked
	// NewlyUnlocked means Unlock restored the owner write bit.
	NewlyUnlocked
	// Skipped means the file no longer exists; not an error, it may
	// have been deleted between the scan and the batch.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case AlreadyLocked:
		return "already read-only"
	case NewlyLocked:
		return "locked"
	case AlreadyUnlocked:
		return "already writable"
	case NewlyUnlocked:
		return "unlocked"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

const (
	writeBits  fs.FileMode = 0o222
	ownerWrite fs.FileMode = 0o200
)

// IsLocked reports whether no principal can write the file. A missing
// file reads as unlocked.
func IsLocked(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&writeBits == 0
}

// Lock removes write permission for owner, group and other. Execute
// bits are untouched, so 755 becomes 555 and 644 becomes 444. On
// platforms without per-principal bits, Go maps the owner write bit to
// the read-only attribute and the same call applies. Idempotent: an
// already read-only file yields AlreadyLocked, never an error.
func Lock(path string) (Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Skipped, nil
		}
		return Skipped, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	mode := info.Mode()
	if mode.Perm()&writeBits == 0 {
		return AlreadyLocked, nil
	}
	if err := os.Chmod(path, mode&^writeBits); err != nil {
		return Skipped, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return NewlyLocked, nil
}

// Unlock restores write permission for the owner only. Group and other
// write bits removed by Lock stay removed; re-granting write to anyone
// but the current user is deliberately avoided.
func Unlock(path string) (Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Skipped, nil
		}
		return Skipped, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	mode := info.Mode()
	if mode.Perm()&ownerWrite != 0 {
		return AlreadyUnlocked, nil
	}
	if err := os.Chmod(path, mode|ownerWrite); err != nil {
		return Skipped, fmt.Errorf("failed to unlock %s: %w", path, err)
	}
	return NewlyUnlocked, nil
}
