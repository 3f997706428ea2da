package repositories

import "github.com/rios0rios0/devicesync/internal/domain/entities"

// StagingRepository manages per-run working directories and the file I/O inside them.
type StagingRepository interface {
	// Acquire creates a fresh, uniquely named, empty directory under parentDir
	// (the OS temporary directory when empty).
	Acquire(parentDir string) (*entities.StagingArea, error)

	// Release removes the area recursively. Releasing twice is a no-op.
	Release(area *entities.StagingArea) error

	ReadFile(area *entities.StagingArea, relativePath string) ([]byte, error)
	WriteFile(area *entities.StagingArea, relativePath string, data []byte) error

	// RemoveFile deletes a file; a file that does not exist is not an error.
	RemoveFile(area *entities.StagingArea, relativePath string) error
}
