package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/domain/repositories"
)

const (
	driverName = entities.GitDriverCLI
	gitBinary  = "git"
	remoteName = "origin"
)

// Runner executes git with a discrete argument list and returns its combined output.
type Runner func(ctx context.Context, env []string, args ...string) (string, error)

// VersionControlRepository implements repositories.VersionControlRepository by
// running the git binary. Arguments are always passed as a list, never through a
// shell, and "-C <dir>" is used instead of changing the working directory.
type VersionControlRepository struct {
	cfg entities.GitConfig
	run Runner
}

var _ repositories.VersionControlRepository = (*VersionControlRepository)(nil)

// NewVersionControlRepository creates a git CLI driver for the given git settings.
func NewVersionControlRepository(cfg entities.GitConfig) repositories.VersionControlRepository {
	return NewVersionControlRepositoryWithRunner(cfg, execRunner)
}

// NewVersionControlRepositoryWithRunner creates a driver that runs git through runner.
func NewVersionControlRepositoryWithRunner(cfg entities.GitConfig, runner Runner) *VersionControlRepository {
	return &VersionControlRepository{cfg: cfg, run: runner}
}

func (it *VersionControlRepository) Name() string { return driverName }

func (it *VersionControlRepository) Clone(ctx context.Context, remoteURL, dir string) error {
	// "--" keeps a remote URL that starts with "-" from being read as an option
	if _, err := it.run(ctx, it.env(), "clone", "--quiet", "--", remoteURL, dir); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

func (it *VersionControlRepository) StageAll(ctx context.Context, dir string) error {
	if _, err := it.run(ctx, it.env(), "-C", dir, "add", "--all"); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	return nil
}

func (it *VersionControlRepository) HasChanges(ctx context.Context, dir string) (bool, error) {
	output, err := it.run(ctx, it.env(), "-C", dir, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status failed: %w", err)
	}
	return strings.TrimSpace(output) != "", nil
}

func (it *VersionControlRepository) Commit(ctx context.Context, dir, message string) (string, error) {
	// the message follows -m as its own argument, so it can never become a flag
	if _, err := it.run(ctx, it.env(), "-C", dir, "commit", "--quiet", "-m", message); err != nil {
		return "", fmt.Errorf("git commit failed: %w", err)
	}
	output, err := it.run(ctx, it.env(), "-C", dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(output), nil
}

func (it *VersionControlRepository) Push(ctx context.Context, dir string) error {
	output, err := it.run(ctx, it.env(), "-C", dir, "push", "--porcelain", remoteName, "HEAD")
	if err == nil {
		return nil
	}
	if isRejected(output) || isRejected(err.Error()) {
		return fmt.Errorf("%w: %w", entities.ErrNonFastForward, err)
	}
	return fmt.Errorf("git push failed: %w", err)
}

// env sets the commit identity and, when configured, the ssh key used for the remote.
func (it *VersionControlRepository) env() []string {
	env := []string{
		"GIT_TERMINAL_PROMPT=0",
		"GIT_AUTHOR_NAME=" + it.cfg.AuthorName,
		"GIT_AUTHOR_EMAIL=" + it.cfg.AuthorEmail,
		"GIT_COMMITTER_NAME=" + it.cfg.AuthorName,
		"GIT_COMMITTER_EMAIL=" + it.cfg.AuthorEmail,
	}
	if it.cfg.SSHKeyFile != "" {
		env = append(env, "GIT_SSH_COMMAND=ssh -i "+shellQuote(it.cfg.SSHKeyFile)+" -o IdentitiesOnly=yes")
	}
	return env
}

func execRunner(ctx context.Context, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, gitBinary, args...)
	cmd.Env = append(os.Environ(), env...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	logger.Debugf("Running git %s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return output.String(), fmt.Errorf("%w: %s", err, strings.TrimSpace(output.String()))
	}
	return output.String(), nil
}

func isRejected(output string) bool {
	return strings.Contains(output, "[rejected]") ||
		strings.Contains(output, "non-fast-forward") ||
		strings.Contains(output, "fetch first")
}

// shellQuote wraps a value in single quotes for GIT_SSH_COMMAND, which git
// hands to a shell.
func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
