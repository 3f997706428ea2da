package repositories

import (
	"context"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
)

// TransportRepository opens sessions to a device over one transport variant.
// Both variants sit behind this interface so the sync workflows never branch on
// how the device is reached.
type TransportRepository interface {
	// Variant returns the transport this repository serves.
	Variant() entities.TransportVariant

	// Open connects to the endpoint. The endpoint must be of the repository's variant.
	Open(ctx context.Context, endpoint entities.DeviceEndpoint) (Session, error)
}

// Session is an open connection to a device. Close must be called on every path.
type Session interface {
	// RetrieveConfiguration returns the full running configuration text.
	RetrieveConfiguration(ctx context.Context) (string, error)

	// ApplyConfiguration replays the lines to the device in order.
	ApplyConfiguration(ctx context.Context, lines []string) error

	Close() error
}
