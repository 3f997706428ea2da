package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/devicesync/internal/infrastructure/repositories"
)

// Sync is the interface for the sync command (both directions).
type Sync interface {
	Execute(ctx context.Context, settings *entities.Settings, input entities.SyncInput) (*entities.SyncResult, error)
}

// SyncCommand is the synchronization engine: it validates the input, acquires a
// staging area, clones the repository, moves the configuration between device
// and clone, and (for pulls) commits and pushes. The staging area is released on
// every path out of a run.
type SyncCommand struct {
	transportRegistry      *infraRepos.TransportRegistry
	versionControlRegistry *infraRepos.VersionControlRegistry
	staging                repositories.StagingRepository
}

// NewSyncCommand creates a new SyncCommand with the given registries and staging manager.
func NewSyncCommand(
	transportRegistry *infraRepos.TransportRegistry,
	versionControlRegistry *infraRepos.VersionControlRegistry,
	staging repositories.StagingRepository,
) *SyncCommand {
	return &SyncCommand{
		transportRegistry:      transportRegistry,
		versionControlRegistry: versionControlRegistry,
		staging:                staging,
	}
}

// syncRun carries the collaborators of a single run.
type syncRun struct {
	request   *entities.SyncRequest
	transport repositories.TransportRepository
	vcs       repositories.VersionControlRepository
	remoteURL string
	result    *entities.SyncResult
	log       *logger.Entry
}

// Execute runs one synchronization. The result is returned on failure too, so
// callers can see which state the run reached.
func (it *SyncCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	input entities.SyncInput,
) (*entities.SyncResult, error) {
	result := entities.NewSyncResult(uuid.NewString(), input.Direction)
	log := logger.WithFields(logger.Fields{"run": result.RunID, "direction": input.Direction})

	run, err := it.prepare(settings, input, result, log)
	if err == nil {
		log = run.log
		err = it.withinStagingArea(settings.Staging.Dir, run, func(area *entities.StagingArea) error {
			return it.transfer(ctx, run, area)
		})
	}

	result.Release(err)
	if err != nil {
		log.WithError(err).Debug("Sync failed")
		return result, err
	}
	log.Infof("Sync finished (changed: %t)", result.Changed)
	return result, nil
}

// prepare validates the input and resolves the transport and driver. Nothing is
// opened or created before validation passes.
func (it *SyncCommand) prepare(
	settings *entities.Settings,
	input entities.SyncInput,
	result *entities.SyncResult,
	log *logger.Entry,
) (*syncRun, error) {
	it.transition(result, log, entities.StateValidating)
	request, err := entities.NewSyncRequest(input)
	if err != nil {
		return nil, err
	}

	target := request.Target()
	result.ConfigFile = target.ConfigFileName()
	log = log.WithFields(logger.Fields{
		"device":    target.DeviceName,
		"transport": request.Endpoint().Variant(),
	})

	transport, err := it.transportRegistry.Get(request.Endpoint().Variant(), settings)
	if err != nil {
		return nil, err
	}
	vcs, err := it.versionControlRegistry.Get(settings.Git.Driver, settings.Git)
	if err != nil {
		return nil, err
	}

	return &syncRun{
		request:   request,
		transport: transport,
		vcs:       vcs,
		remoteURL: target.CloneURL(settings.Git.RemoteBase),
		result:    result,
		log:       log,
	}, nil
}

// withinStagingArea acquires a staging area, runs fn inside it and releases the
// area afterwards, whatever fn returned (or if it panicked).
func (it *SyncCommand) withinStagingArea(
	parentDir string,
	run *syncRun,
	fn func(area *entities.StagingArea) error,
) (err error) {
	area, err := it.staging.Acquire(parentDir)
	if err != nil {
		return &entities.FileAccessError{Path: parentDir, Err: err}
	}
	it.transition(run.result, run.log, entities.StateStagingAcquired)

	defer func() {
		if releaseErr := it.staging.Release(area); releaseErr != nil {
			err = appendError(err, &entities.FileAccessError{Path: area.Path(), Err: releaseErr})
		}
	}()
	return fn(area)
}

func (it *SyncCommand) transfer(ctx context.Context, run *syncRun, area *entities.StagingArea) error {
	run.log.Infof("Cloning %s", run.request.Target().Slug())
	if err := run.vcs.Clone(ctx, run.remoteURL, area.Path()); err != nil {
		return &entities.RepositoryError{Step: entities.StepClone, Err: err}
	}
	it.transition(run.result, run.log, entities.StateRepositoryCloned)

	if run.request.Direction() == entities.DirectionPull {
		return it.pull(ctx, run, area)
	}
	return it.push(ctx, run, area)
}

// pull copies the device configuration into the clone, then commits and pushes it.
func (it *SyncCommand) pull(ctx context.Context, run *syncRun, area *entities.StagingArea) error {
	it.transition(run.result, run.log, entities.StateTransferring)

	var text string
	err := it.withSession(ctx, run, func(session repositories.Session) error {
		var retrieveErr error
		text, retrieveErr = session.RetrieveConfiguration(ctx)
		if retrieveErr != nil {
			return &entities.CommandError{Operation: "retrieve configuration", Err: retrieveErr}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// a leftover from an earlier failed run must never merge into the new file
	fileName := run.request.Target().ConfigFileName()
	if err = it.staging.RemoveFile(area, fileName); err != nil {
		return &entities.FileAccessError{Path: fileName, Err: err}
	}
	if err = it.staging.WriteFile(area, fileName, []byte(text)); err != nil {
		return &entities.FileAccessError{Path: fileName, Err: err}
	}
	run.log.Debugf("Wrote %d bytes to %s", len(text), fileName)

	it.transition(run.result, run.log, entities.StateCommitting)
	return it.commitAndPush(ctx, run, area)
}

func (it *SyncCommand) commitAndPush(ctx context.Context, run *syncRun, area *entities.StagingArea) error {
	dir := area.Path()
	if err := run.vcs.StageAll(ctx, dir); err != nil {
		return &entities.RepositoryError{Step: entities.StepStage, Err: err}
	}

	changed, err := run.vcs.HasChanges(ctx, dir)
	if err != nil {
		return &entities.RepositoryError{Step: entities.StepStatus, Err: err}
	}
	if !changed {
		run.log.Info("Configuration unchanged, nothing to commit")
		return nil
	}

	hash, err := run.vcs.Commit(ctx, dir, run.request.CommitMessage())
	if err != nil {
		return &entities.RepositoryError{Step: entities.StepCommit, Err: err}
	}

	if err = run.vcs.Push(ctx, dir); err != nil {
		if errors.Is(err, entities.ErrNonFastForward) {
			err = &entities.PushConflictError{Remote: run.remoteURL, Err: err}
		}
		return &entities.RepositoryError{Step: entities.StepPush, Err: err}
	}

	run.result.Changed = true
	run.result.CommitHash = hash
	run.log.Infof("Pushed commit %s", hash)
	return nil
}

// push replays the configuration file from the clone onto the device.
func (it *SyncCommand) push(ctx context.Context, run *syncRun, area *entities.StagingArea) error {
	it.transition(run.result, run.log, entities.StateTransferring)

	fileName := run.request.Target().ConfigFileName()
	data, err := it.staging.ReadFile(area, fileName)
	if err != nil {
		return &entities.FileAccessError{Path: fileName, Err: err}
	}
	lines := entities.ConfigurationPayload(data).Lines()

	err = it.withSession(ctx, run, func(session repositories.Session) error {
		if applyErr := session.ApplyConfiguration(ctx, lines); applyErr != nil {
			return &entities.CommandError{Operation: "apply configuration", Err: applyErr}
		}
		return nil
	})
	if err != nil {
		return err
	}

	run.result.LinesApplied = len(lines)
	run.result.Changed = true
	run.log.Infof("Applied %d lines from %s", len(lines), fileName)
	return nil
}

// withSession opens the transport, runs fn, and closes the session on every path.
func (it *SyncCommand) withSession(
	ctx context.Context,
	run *syncRun,
	fn func(session repositories.Session) error,
) (err error) {
	endpoint := run.request.Endpoint()
	session, err := run.transport.Open(ctx, endpoint)
	if err != nil {
		return &entities.ConnectError{Variant: endpoint.Variant(), Target: endpoint.String(), Err: err}
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = appendError(err, &entities.CommandError{Operation: "close session", Err: closeErr})
		}
	}()
	return fn(session)
}

func (it *SyncCommand) transition(result *entities.SyncResult, log *logger.Entry, next entities.SyncState) {
	previous := result.Transition(next)
	log.Debugf("State %s -> %s", previous, next)
}

// appendError adds extra to err, keeping both reachable through errors.Is/As.
func appendError(err, extra error) error {
	merged := multierror.Append(err, extra)
	merged.ErrorFormat = func(errs []error) string {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, e.Error())
		}
		return strings.Join(messages, "; ")
	}
	return merged.ErrorOrNil()
}
