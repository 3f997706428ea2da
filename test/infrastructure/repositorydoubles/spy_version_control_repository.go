//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/rios0rios0/devicesync/internal/domain/repositories"
)

// SpyVersionControlRepository implements repositories.VersionControlRepository
// as a configurable spy. Clone writes RemoteFiles into the target directory of
// Fs, so it pairs with a staging repository built on the same afero.Fs.
type SpyVersionControlRepository struct {
	Fs afero.Fs

	// --- Clone ---
	RemoteFiles map[string]string // relative path -> content
	CloneErr    error
	ClonedURLs  []string
	ClonedDirs  []string

	// --- StageAll ---
	StageErr   error
	StageCount int
	// spy: working tree content seen by the last StageAll
	StagedFiles map[string]string

	// --- HasChanges ---
	Changed       bool
	HasChangesErr error

	// --- Commit ---
	CommitHash     string
	CommitErr      error
	CommitMessages []string

	// --- Push ---
	PushErr   error
	PushCount int
}

var _ repositories.VersionControlRepository = (*SpyVersionControlRepository)(nil)

func (s *SpyVersionControlRepository) Name() string { return "spy" }

func (s *SpyVersionControlRepository) Clone(_ context.Context, remoteURL, dir string) error {
	s.ClonedURLs = append(s.ClonedURLs, remoteURL)
	s.ClonedDirs = append(s.ClonedDirs, dir)
	if s.CloneErr != nil {
		return s.CloneErr
	}
	for path, content := range s.RemoteFiles {
		if err := afero.WriteFile(s.Fs, filepath.Join(dir, path), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (s *SpyVersionControlRepository) StageAll(_ context.Context, dir string) error {
	s.StageCount++
	s.StagedFiles = map[string]string{}
	walkErr := afero.Walk(s.Fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		content, readErr := afero.ReadFile(s.Fs, path)
		if readErr != nil {
			return readErr
		}
		relative, _ := filepath.Rel(dir, path)
		s.StagedFiles[relative] = string(content)
		return nil
	})
	if walkErr != nil {
		return walkErr
	}
	return s.StageErr
}

func (s *SpyVersionControlRepository) HasChanges(_ context.Context, _ string) (bool, error) {
	return s.Changed, s.HasChangesErr
}

func (s *SpyVersionControlRepository) Commit(_ context.Context, _, message string) (string, error) {
	s.CommitMessages = append(s.CommitMessages, message)
	return s.CommitHash, s.CommitErr
}

func (s *SpyVersionControlRepository) Push(_ context.Context, _ string) error {
	s.PushCount++
	return s.PushErr
}
