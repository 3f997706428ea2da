package staging

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/domain/repositories"
)

const (
	dirPrefix = "devicesync-"
	filePerm  = 0o600
)

// StagingRepository implements repositories.StagingRepository on top of an afero
// filesystem: the OS filesystem in production, an in-memory one in tests.
type StagingRepository struct {
	fs afero.Fs
}

var _ repositories.StagingRepository = (*StagingRepository)(nil)

// NewStagingRepository creates a staging repository on the given filesystem.
func NewStagingRepository(fs afero.Fs) *StagingRepository {
	return &StagingRepository{fs: fs}
}

func (it *StagingRepository) Acquire(parentDir string) (*entities.StagingArea, error) {
	if parentDir != "" {
		if err := it.fs.MkdirAll(parentDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create staging parent %q: %w", parentDir, err)
		}
	}

	path, err := afero.TempDir(it.fs, parentDir, dirPrefix+uuid.NewString()+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	logger.Debugf("Acquired staging area %s", path)
	return entities.NewStagingArea(path), nil
}

func (it *StagingRepository) Release(area *entities.StagingArea) error {
	if area == nil || area.IsReleased() {
		return nil
	}
	if err := it.fs.RemoveAll(area.Path()); err != nil {
		return fmt.Errorf("failed to remove staging area %q: %w", area.Path(), err)
	}
	area.MarkReleased()
	logger.Debugf("Released staging area %s", area.Path())
	return nil
}

func (it *StagingRepository) ReadFile(area *entities.StagingArea, relativePath string) ([]byte, error) {
	path, err := area.Within(relativePath)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(it.fs, path)
}

func (it *StagingRepository) WriteFile(area *entities.StagingArea, relativePath string, data []byte) error {
	path, err := area.Within(relativePath)
	if err != nil {
		return err
	}
	return afero.WriteFile(it.fs, path, data, filePerm)
}

func (it *StagingRepository) RemoveFile(area *entities.StagingArea, relativePath string) error {
	path, err := area.Within(relativePath)
	if err != nil {
		return err
	}
	if err = it.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
