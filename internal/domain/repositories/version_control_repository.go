package repositories

import "context"

// VersionControlRepository abstracts the version control operations a run needs.
// Every method works on an explicit directory; none relies on the process working
// directory, and user-derived values are never interpreted by a shell.
type VersionControlRepository interface {
	// Name returns the driver identifier (e.g. "gogit", "cli").
	Name() string

	// Clone clones remoteURL into dir, which exists and is empty.
	Clone(ctx context.Context, remoteURL, dir string) error

	// StageAll stages every addition, modification, and deletion in dir.
	StageAll(ctx context.Context, dir string) error

	// HasChanges reports whether the staged tree differs from HEAD.
	HasChanges(ctx context.Context, dir string) (bool, error)

	// Commit records the staged changes and returns the new commit hash.
	Commit(ctx context.Context, dir, message string) (string, error)

	// Push publishes the current branch to origin. A rejected non-fast-forward
	// update is reported as entities.ErrNonFastForward.
	Push(ctx context.Context, dir string) error
}
