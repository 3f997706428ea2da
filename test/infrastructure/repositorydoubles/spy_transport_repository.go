//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/domain/repositories"
)

// SpyTransportRepository implements repositories.TransportRepository as a configurable spy.
type SpyTransportRepository struct {
	// --- identity ---
	TransportVariant entities.TransportVariant

	// --- Open ---
	Session *SpySession
	OpenErr error
	// spy: endpoints that were opened
	OpenedEndpoints []entities.DeviceEndpoint
}

var _ repositories.TransportRepository = (*SpyTransportRepository)(nil)

func (s *SpyTransportRepository) Variant() entities.TransportVariant { return s.TransportVariant }

func (s *SpyTransportRepository) Open(
	_ context.Context,
	endpoint entities.DeviceEndpoint,
) (repositories.Session, error) {
	s.OpenedEndpoints = append(s.OpenedEndpoints, endpoint)
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	if s.Session == nil {
		s.Session = &SpySession{}
	}
	return s.Session, nil
}

// SpySession implements repositories.Session as a configurable spy.
type SpySession struct {
	// --- RetrieveConfiguration ---
	Configuration string
	RetrieveErr   error
	RetrieveCount int

	// --- ApplyConfiguration ---
	ApplyErr error
	// spy: every batch of lines received
	AppliedLines [][]string

	// --- Close ---
	CloseErr   error
	CloseCount int
}

var _ repositories.Session = (*SpySession)(nil)

func (s *SpySession) RetrieveConfiguration(_ context.Context) (string, error) {
	s.RetrieveCount++
	return s.Configuration, s.RetrieveErr
}

func (s *SpySession) ApplyConfiguration(_ context.Context, lines []string) error {
	s.AppliedLines = append(s.AppliedLines, lines)
	return s.ApplyErr
}

func (s *SpySession) Close() error {
	s.CloseCount++
	return s.CloseErr
}
