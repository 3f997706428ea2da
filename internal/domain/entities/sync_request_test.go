//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/test/domain/entitybuilders"
)

func TestNewSyncRequest(t *testing.T) {
	t.Parallel()

	t.Run("should build a remote session request from a complete pull", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().WithDeviceName("core-sw01").BuildSyncInput()

		// when
		request, err := entities.NewSyncRequest(input)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DirectionPull, request.Direction())
		assert.Equal(t, "core-sw01_config.txt", request.Target().ConfigFileName())
		assert.Equal(t, "nightly backup", request.CommitMessage())
		assert.Equal(t, entities.RemoteSessionEndpoint{
			DeviceKind: "cisco_ios",
			Host:       "10.0.0.1",
			Username:   "admin",
			Secret:     "secret",
		}, request.Endpoint())
	})

	t.Run("should build a serial request from a push without ssh fields", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().AsPush().BuildSyncInput()

		// when
		request, err := entities.NewSyncRequest(input)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.SerialLinkEndpoint{DeviceNode: "ttyUSB0"}, request.Endpoint())
		assert.Empty(t, request.CommitMessage())
	})

	t.Run("should apply the direction default transport when none is given", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().AsPush().WithTransport("").BuildSyncInput()

		// when
		request, err := entities.NewSyncRequest(input)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.TransportSerialLink, request.Endpoint().Variant())
	})

	t.Run("should require the ssh fields when a push selects ssh", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().AsPush().WithTransport("ssh").BuildSyncInput()

		// when
		_, err := entities.NewSyncRequest(input)

		// then
		var missing *entities.MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []entities.Field{
			entities.FieldDeviceType, entities.FieldHost, entities.FieldUsername, entities.FieldPassword,
		}, missing.Fields)
	})

	t.Run("should reject names that could address other paths", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().WithDeviceName("../etc/passwd").BuildSyncInput()

		// when
		_, err := entities.NewSyncRequest(input)

		// then
		var invalid *entities.InvalidFieldError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, entities.FieldName, invalid.Field)
	})

	t.Run("should reject a repository starting with a dash", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().WithRepository("--upload-pack=evil").BuildSyncInput()

		// when
		_, err := entities.NewSyncRequest(input)

		// then
		var invalid *entities.InvalidFieldError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, entities.FieldRepository, invalid.Field)
	})

	t.Run("should accept shell metacharacters in the commit message", func(t *testing.T) {
		t.Parallel()

		// given
		message := `backup "$(whoami)"; echo done`
		input := entitybuilders.NewSyncInputBuilder().WithCommitMessage(message).BuildSyncInput()

		// when
		request, err := entities.NewSyncRequest(input)

		// then
		require.NoError(t, err)
		assert.Equal(t, message, request.CommitMessage())
	})

	t.Run("should reject a tty path climbing out of its directory", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().AsPush().WithTTY("/dev/../etc/shadow").BuildSyncInput()

		// when
		_, err := entities.NewSyncRequest(input)

		// then
		var invalid *entities.InvalidFieldError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, entities.FieldTTY, invalid.Field)
	})

	t.Run("should reject an unknown transport before checking fields", func(t *testing.T) {
		t.Parallel()

		// given
		input := entitybuilders.NewSyncInputBuilder().WithTransport("telnet").WithHost("").BuildSyncInput()

		// when
		_, err := entities.NewSyncRequest(input)

		// then
		var invalid *entities.InvalidFieldError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, entities.FieldTransport, invalid.Field)
	})
}

func TestDeviceEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("should add the default port only when the host has none", func(t *testing.T) {
		t.Parallel()

		// given
		bare := entities.RemoteSessionEndpoint{Host: "10.0.0.1"}
		withPort := entities.RemoteSessionEndpoint{Host: "10.0.0.1:2222"}

		// when
		bareAddress := bare.Address(22)
		portAddress := withPort.Address(22)

		// then
		assert.Equal(t, "10.0.0.1:22", bareAddress)
		assert.Equal(t, "10.0.0.1:2222", portAddress)
	})

	t.Run("should resolve bare serial node names under /dev", func(t *testing.T) {
		t.Parallel()

		// given
		bare := entities.SerialLinkEndpoint{DeviceNode: "ttyUSB0"}
		absolute := entities.SerialLinkEndpoint{DeviceNode: "/dev/serial/by-id/usb-cisco"}

		// when
		barePath := bare.DevicePath()
		absolutePath := absolute.DevicePath()

		// then
		assert.Equal(t, "/dev/ttyUSB0", barePath)
		assert.Equal(t, "/dev/serial/by-id/usb-cisco", absolutePath)
	})
}
