package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// CheckInputFile returns an error wrapping fs.ErrNotExist when path is missing,
// and an error when path is a directory.
func CheckInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// TempPath returns the sibling path used while a file is being written.
func TempPath(path string) string {
	return path + ".tmp"
}

// SamePath reports whether a and b resolve to the same absolute path.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// FileSize returns the size of a file in bytes
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
