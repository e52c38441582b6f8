package filesystem

import "os"

// Checker reports file existence and size using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Size returns the file size in bytes, or 0 if the file cannot be stat'd
func (c *Checker) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Mover moves files using os.Rename
type Mover struct{}

// NewMover creates a new filesystem mover
func NewMover() *Mover {
	return &Mover{}
}

// Rename atomically moves a file within one filesystem
func (m *Mover) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
