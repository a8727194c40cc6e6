package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manav03panchal/rollcall/internal/errors"
)

const (
	// MinFreeSpace is the default free space required for write operations (10MB).
	MinFreeSpace = 10 * 1024 * 1024
)

// DiskSpaceInfo contains information about available disk space.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
	UsedBytes  uint64
}

// CheckDiskSpace checks if there's at least minFree bytes available at path.
func CheckDiskSpace(path string, minFree uint64) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		// Not being able to measure is not a reason to refuse the write.
		return nil
	}

	if info.FreeBytes < minFree {
		return errors.NewStorageError("check disk space", path,
			fmt.Errorf("%w: %d MB free, need at least %d MB",
				errors.ErrDiskFull,
				info.FreeBytes/(1024*1024),
				minFree/(1024*1024)))
	}

	return nil
}

// SafeWrite atomically replaces path with data: it checks disk space, writes
// a temp file in the same directory, syncs it and renames it over path.
// Readers see either the old or the new content, never a partial file.
func SafeWrite(path string, data []byte, perm os.FileMode, minFree uint64) error {
	dir := filepath.Dir(path)
	if err := CheckDiskSpace(dir, minFree); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".rollcall-*.tmp")
	if err != nil {
		return writeError("create temp file", path, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return writeError("write", path, err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return writeError("sync", path, err)
	}

	if err := tmpFile.Close(); err != nil {
		return writeError("close temp file", path, err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return writeError("set permissions", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return writeError("rename temp file", path, err)
	}

	success = true
	return nil
}

// writeError wraps a write failure as a StorageError, tagging disk-full
// conditions with ErrDiskFull.
func writeError(op, path string, err error) error {
	if isDiskFullError(err) {
		err = fmt.Errorf("%w: %v", errors.ErrDiskFull, err)
	}
	return errors.NewStorageError(op, path, err)
}

// EnsureDirectory creates a directory with safe permissions if it doesn't exist.
func EnsureDirectory(path string, minFree uint64) error {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return errors.NewStorageError("open data directory", path, fmt.Errorf("not a directory"))
		}
		return nil
	}

	if err := CheckDiskSpace(filepath.Dir(path), minFree); err != nil {
		return err
	}

	if err := os.MkdirAll(path, 0700); err != nil {
		return writeError("mkdir", path, err)
	}

	return nil
}
