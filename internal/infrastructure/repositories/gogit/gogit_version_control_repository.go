package gogit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/domain/repositories"
)

const (
	driverName    = entities.GitDriverGoGit
	remoteName    = "origin"
	sshUser       = "git"
	tokenUsername = "x-access-token"
)

// VersionControlRepository implements repositories.VersionControlRepository with
// go-git, entirely in process.
type VersionControlRepository struct {
	cfg entities.GitConfig
	now func() time.Time
}

var _ repositories.VersionControlRepository = (*VersionControlRepository)(nil)

// NewVersionControlRepository creates a go-git driver for the given git settings.
func NewVersionControlRepository(cfg entities.GitConfig) repositories.VersionControlRepository {
	return &VersionControlRepository{cfg: cfg, now: time.Now}
}

func (it *VersionControlRepository) Name() string { return driverName }

func (it *VersionControlRepository) Clone(ctx context.Context, remoteURL, dir string) error {
	auth, err := it.authFor(remoteURL)
	if err != nil {
		return err
	}

	logger.Debugf("Cloning %s into %s", remoteURL, dir)
	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:        remoteURL,
		Auth:       auth,
		RemoteName: remoteName,
	})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		logger.Infof("Remote %s is empty, starting a new history", remoteURL)
		return initEmpty(dir, remoteURL)
	}
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", remoteURL, err)
	}
	return nil
}

func (it *VersionControlRepository) StageAll(_ context.Context, dir string) error {
	worktree, err := openWorktree(dir)
	if err != nil {
		return err
	}
	if err = worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

func (it *VersionControlRepository) HasChanges(_ context.Context, dir string) (bool, error) {
	worktree, err := openWorktree(dir)
	if err != nil {
		return false, err
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}
	return !status.IsClean(), nil
}

func (it *VersionControlRepository) Commit(_ context.Context, dir, message string) (string, error) {
	worktree, err := openWorktree(dir)
	if err != nil {
		return "", err
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  it.cfg.AuthorName,
			Email: it.cfg.AuthorEmail,
			When:  it.now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

func (it *VersionControlRepository) Push(ctx context.Context, dir string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository %q: %w", dir, err)
	}
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("failed to get remote %q: %w", remoteName, err)
	}
	remoteURL := remote.Config().URLs[0]
	auth, err := it.authFor(remoteURL)
	if err != nil {
		return err
	}

	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: remoteName, Auth: auth})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, git.ErrNonFastForwardUpdate), isRemoteRejection(err):
		return fmt.Errorf("%w: %w", entities.ErrNonFastForward, err)
	default:
		return fmt.Errorf("failed to push to %s: %w", remoteURL, err)
	}
}

// authFor picks the auth method from the URL scheme: ssh key or agent for ssh
// remotes, token for https, nothing for local paths.
func (it *VersionControlRepository) authFor(remoteURL string) (transport.AuthMethod, error) {
	switch {
	case strings.HasPrefix(remoteURL, "git@"), strings.HasPrefix(remoteURL, "ssh://"):
		if it.cfg.SSHKeyFile != "" {
			keys, err := gitssh.NewPublicKeysFromFile(sshUser, it.cfg.SSHKeyFile, "")
			if err != nil {
				return nil, fmt.Errorf("failed to load ssh key %q: %w", it.cfg.SSHKeyFile, err)
			}
			return keys, nil
		}
		agentAuth, err := gitssh.NewSSHAgentAuth(sshUser)
		if err != nil {
			return nil, fmt.Errorf("no ssh key configured and ssh-agent unavailable: %w", err)
		}
		return agentAuth, nil
	case strings.HasPrefix(remoteURL, "https://"), strings.HasPrefix(remoteURL, "http://"):
		if it.cfg.Token == "" {
			return nil, nil
		}
		return &githttp.BasicAuth{Username: tokenUsername, Password: it.cfg.Token}, nil
	default:
		return nil, nil
	}
}

func initEmpty(dir, remoteURL string) error {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	if _, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: remoteName,
		URLs: []string{remoteURL},
	}); err != nil {
		return fmt.Errorf("failed to add remote %q: %w", remoteName, err)
	}
	return nil
}

func openWorktree(dir string) (*git.Worktree, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	return worktree, nil
}

// isRemoteRejection catches rejections reported by the server side of the push.
func isRemoteRejection(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "non-fast-forward") || strings.Contains(msg, "fetch first")
}
