//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devicesync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveSecret(t *testing.T) {
	t.Run("should return empty string for empty input", func(t *testing.T) {
		t.Parallel()

		// given
		raw := ""

		// when
		result := entities.ResolveSecret(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should return an inline secret unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "s3cret"

		// when
		result := entities.ResolveSecret(raw)

		// then
		assert.Equal(t, "s3cret", result)
	})

	t.Run("should expand environment variable reference", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_DEVICE_PASSWORD", "from-env")
		raw := "${TEST_DEVICE_PASSWORD}"

		// when
		result := entities.ResolveSecret(raw)

		// then
		assert.Equal(t, "from-env", result)
	})

	t.Run("should read the secret from a file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "password")
		require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

		// when
		result := entities.ResolveSecret(path)

		// then
		assert.Equal(t, "from-file", result)
	})
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should fill defaults for an empty file", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, "{}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.GitDriverGoGit, settings.Git.Driver)
		assert.Equal(t, "git@github.com:", settings.Git.RemoteBase)
		assert.Equal(t, "cisco_ios", settings.Defaults.DeviceType)
		assert.Equal(t, 22, settings.SSH.Port)
		assert.Equal(t, 9600, settings.Serial.BaudRate)
		assert.Empty(t, settings.Defaults.Transport)
	})

	t.Run("should parse every section", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, `
defaults:
  transport: serial
  account: netops
  tty: ttyUSB1
git:
  driver: cli
  remote_base: "https://git.example.com/"
ssh:
  port: 2222
  insecure_skip_verify: true
  timeout: 5s
serial:
  baud_rate: 115200
  read_timeout: 500ms
staging:
  dir: /var/tmp/devicesync
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "serial", settings.Defaults.Transport)
		assert.Equal(t, entities.GitDriverCLI, settings.Git.Driver)
		assert.Equal(t, "https://git.example.com/", settings.Git.RemoteBase)
		assert.Equal(t, 2222, settings.SSH.Port)
		assert.True(t, settings.SSH.InsecureSkipVerify)
		assert.Equal(t, 5*time.Second, settings.SSH.Timeout)
		assert.Equal(t, 115200, settings.Serial.BaudRate)
		assert.Equal(t, 500*time.Millisecond, settings.Serial.ReadTimeout)
		assert.Equal(t, "/var/tmp/devicesync", settings.Staging.Dir)
	})

	t.Run("should reject an unknown git driver", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, "git:\n  driver: svn\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.ErrorContains(t, err, "git.driver")
	})

	t.Run("should reject an unknown default transport", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, "defaults:\n  transport: telnet\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.ErrorContains(t, err, "defaults.transport")
	})
}

func TestSettingsApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("should keep flag values and fill only the empty ones", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.NewDefaultSettings()
		settings.Defaults.Account = "netops"
		settings.Defaults.Host = "10.0.0.1"
		input := entities.SyncInput{Direction: entities.DirectionPull, Host: "10.0.0.2"}

		// when
		result := settings.ApplyTo(input)

		// then
		assert.Equal(t, "netops", result.Account)
		assert.Equal(t, "10.0.0.2", result.Host)
		assert.Equal(t, "cisco_ios", result.DeviceType)
	})
}
