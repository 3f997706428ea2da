//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/devicesync/internal/domain/commands"
	"github.com/rios0rios0/devicesync/internal/domain/entities"
)

// StubSyncCommand is a stub implementation of commands.Sync.
type StubSyncCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Result           *entities.SyncResult
	LastSettings     *entities.Settings
	LastInput        entities.SyncInput
}

var _ commands.Sync = (*StubSyncCommand)(nil)

func (s *StubSyncCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	input entities.SyncInput,
) (*entities.SyncResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastInput = input

	result := s.Result
	if result == nil {
		result = entities.NewSyncResult("stub-run", input.Direction)
	}
	return result, s.ExecuteErr
}
