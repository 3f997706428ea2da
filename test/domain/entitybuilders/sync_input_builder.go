//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/devicesync/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SyncInputBuilder helps create sync inputs with a fluent interface. The
// defaults form a complete pull over ssh.
type SyncInputBuilder struct {
	*testkit.BaseBuilder
	input entities.SyncInput
}

func defaultSyncInput() entities.SyncInput {
	return entities.SyncInput{
		Direction:     entities.DirectionPull,
		Transport:     string(entities.TransportRemoteSession),
		DeviceName:    "core-sw01",
		Account:       "netops",
		Repository:    "configs",
		CommitMessage: "nightly backup",
		DeviceType:    "cisco_ios",
		Host:          "10.0.0.1",
		Username:      "admin",
		Password:      "secret",
	}
}

// NewSyncInputBuilder creates a new sync input builder with sensible defaults.
func NewSyncInputBuilder() *SyncInputBuilder {
	return &SyncInputBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		input:       defaultSyncInput(),
	}
}

// AsPush switches to a push over a serial line on ttyUSB0.
func (b *SyncInputBuilder) AsPush() *SyncInputBuilder {
	b.input.Direction = entities.DirectionPush
	b.input.Transport = string(entities.TransportSerialLink)
	b.input.CommitMessage = ""
	b.input.DeviceType = ""
	b.input.Host = ""
	b.input.Username = ""
	b.input.Password = ""
	b.input.TTY = "ttyUSB0"
	return b
}

// WithDirection sets the direction.
func (b *SyncInputBuilder) WithDirection(direction entities.Direction) *SyncInputBuilder {
	b.input.Direction = direction
	return b
}

// WithTransport sets the raw transport value.
func (b *SyncInputBuilder) WithTransport(transport string) *SyncInputBuilder {
	b.input.Transport = transport
	return b
}

// WithDeviceName sets the device name.
func (b *SyncInputBuilder) WithDeviceName(name string) *SyncInputBuilder {
	b.input.DeviceName = name
	return b
}

// WithAccount sets the repository account.
func (b *SyncInputBuilder) WithAccount(account string) *SyncInputBuilder {
	b.input.Account = account
	return b
}

// WithRepository sets the repository name.
func (b *SyncInputBuilder) WithRepository(repository string) *SyncInputBuilder {
	b.input.Repository = repository
	return b
}

// WithCommitMessage sets the commit message.
func (b *SyncInputBuilder) WithCommitMessage(message string) *SyncInputBuilder {
	b.input.CommitMessage = message
	return b
}

// WithDeviceType sets the device kind.
func (b *SyncInputBuilder) WithDeviceType(deviceType string) *SyncInputBuilder {
	b.input.DeviceType = deviceType
	return b
}

// WithHost sets the device address.
func (b *SyncInputBuilder) WithHost(host string) *SyncInputBuilder {
	b.input.Host = host
	return b
}

// WithUsername sets the login user.
func (b *SyncInputBuilder) WithUsername(username string) *SyncInputBuilder {
	b.input.Username = username
	return b
}

// WithPassword sets the login secret.
func (b *SyncInputBuilder) WithPassword(password string) *SyncInputBuilder {
	b.input.Password = password
	return b
}

// WithTTY sets the serial device node.
func (b *SyncInputBuilder) WithTTY(tty string) *SyncInputBuilder {
	b.input.TTY = tty
	return b
}

// Build creates the input (satisfies testkit.Builder interface).
func (b *SyncInputBuilder) Build() interface{} {
	return b.BuildSyncInput()
}

// BuildSyncInput creates the input with a concrete return type.
func (b *SyncInputBuilder) BuildSyncInput() entities.SyncInput {
	return b.input
}

// Reset clears the builder state, allowing it to be reused.
func (b *SyncInputBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.input = defaultSyncInput()
	return b
}

// Clone creates a copy of the SyncInputBuilder.
func (b *SyncInputBuilder) Clone() testkit.Builder {
	return &SyncInputBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		input:       b.input,
	}
}
