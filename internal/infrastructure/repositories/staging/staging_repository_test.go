//go:build unit

package staging_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/infrastructure/repositories/staging"
)

func TestStagingRepositoryAcquire(t *testing.T) {
	t.Parallel()

	t.Run("should create a fresh empty directory under the parent", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		repository := staging.NewStagingRepository(fs)

		// when
		area, err := repository.Acquire("/work")

		// then
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(area.Path(), "/work/devicesync-"))
		entries, readErr := afero.ReadDir(fs, area.Path())
		require.NoError(t, readErr)
		assert.Empty(t, entries)
		assert.Equal(t, entities.StagingOpen, area.State())
	})

	t.Run("should never hand out the same directory twice", func(t *testing.T) {
		t.Parallel()

		// given
		repository := staging.NewStagingRepository(afero.NewMemMapFs())

		// when
		first, firstErr := repository.Acquire("/work")
		second, secondErr := repository.Acquire("/work")

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.NotEqual(t, first.Path(), second.Path())
	})
}

func TestStagingRepositoryRelease(t *testing.T) {
	t.Parallel()

	t.Run("should remove the directory and everything in it", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		repository := staging.NewStagingRepository(fs)
		area, err := repository.Acquire("/work")
		require.NoError(t, err)
		require.NoError(t, repository.WriteFile(area, "R1_config.txt", []byte("hostname R1\n")))
		require.NoError(t, fs.MkdirAll(area.Path()+"/.git/objects", 0o700))

		// when
		err = repository.Release(area)

		// then
		require.NoError(t, err)
		exists, _ := afero.DirExists(fs, area.Path())
		assert.False(t, exists)
		assert.True(t, area.IsReleased())
	})

	t.Run("should be a no-op the second time", func(t *testing.T) {
		t.Parallel()

		// given
		repository := staging.NewStagingRepository(afero.NewMemMapFs())
		area, err := repository.Acquire("/work")
		require.NoError(t, err)
		require.NoError(t, repository.Release(area))

		// when
		err = repository.Release(area)

		// then
		require.NoError(t, err)
	})

	t.Run("should refuse file access after release", func(t *testing.T) {
		t.Parallel()

		// given
		repository := staging.NewStagingRepository(afero.NewMemMapFs())
		area, err := repository.Acquire("/work")
		require.NoError(t, err)
		require.NoError(t, repository.Release(area))

		// when
		_, err = repository.ReadFile(area, "R1_config.txt")

		// then
		require.ErrorIs(t, err, entities.ErrStagingReleased)
	})
}

func TestStagingRepositoryFiles(t *testing.T) {
	t.Parallel()

	t.Run("should read back what was written", func(t *testing.T) {
		t.Parallel()

		// given
		repository := staging.NewStagingRepository(afero.NewMemMapFs())
		area, err := repository.Acquire("")
		require.NoError(t, err)

		// when
		require.NoError(t, repository.WriteFile(area, "R1_config.txt", []byte("hostname R1\n")))
		data, err := repository.ReadFile(area, "R1_config.txt")

		// then
		require.NoError(t, err)
		assert.Equal(t, "hostname R1\n", string(data))
	})

	t.Run("should ignore removing a file that does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		repository := staging.NewStagingRepository(afero.NewMemMapFs())
		area, err := repository.Acquire("/work")
		require.NoError(t, err)

		// when
		err = repository.RemoveFile(area, "R1_config.txt")

		// then
		require.NoError(t, err)
	})

	t.Run("should reject paths leaving the area", func(t *testing.T) {
		t.Parallel()

		// given
		repository := staging.NewStagingRepository(afero.NewMemMapFs())
		area, err := repository.Acquire("/work")
		require.NoError(t, err)

		// when
		err = repository.WriteFile(area, "../escape.txt", []byte("x"))

		// then
		require.ErrorIs(t, err, entities.ErrPathEscapesStaging)
	})
}
