//go:build unit

package serial_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goserial "go.bug.st/serial"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/infrastructure/repositories/serial"
)

// fakePort records every Write as one frame and replays Reads from a queue.
// An exhausted queue reads as a timeout (0 bytes, no error).
type fakePort struct {
	frames      []string
	reads       []string
	writeErr    error
	closed      bool
	readTimeout time.Duration
}

func (p *fakePort) Write(data []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.frames = append(p.frames, string(data))
	return len(data), nil
}

func (p *fakePort) Read(buffer []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, nil
	}
	n := copy(buffer, p.reads[0])
	p.reads = p.reads[1:]
	return n, nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) SetReadTimeout(timeout time.Duration) error {
	p.readTimeout = timeout
	return nil
}

func openFake(t *testing.T, port *fakePort) (*serial.Session, string, *goserial.Mode) {
	t.Helper()
	var openedPath string
	var openedMode *goserial.Mode
	repository := serial.NewTransportRepositoryWithOpener(
		entities.SerialConfig{BaudRate: 9600, ReadTimeout: time.Second},
		func(path string, mode *goserial.Mode) (serial.Port, error) {
			openedPath = path
			openedMode = mode
			return port, nil
		},
	)
	session, err := repository.Open(context.Background(), entities.SerialLinkEndpoint{DeviceNode: "ttyUSB0"})
	require.NoError(t, err)
	return session.(*serial.Session), openedPath, openedMode
}

func TestSerialTransportOpen(t *testing.T) {
	t.Parallel()

	t.Run("should open the node under /dev with 8N1 at the configured baud rate", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{}

		// when
		_, path, mode := openFake(t, port)

		// then
		assert.Equal(t, "/dev/ttyUSB0", path)
		assert.Equal(t, 9600, mode.BaudRate)
		assert.Equal(t, 8, mode.DataBits)
		assert.Equal(t, goserial.NoParity, mode.Parity)
		assert.Equal(t, goserial.OneStopBit, mode.StopBits)
	})

	t.Run("should reject a remote session endpoint", func(t *testing.T) {
		t.Parallel()

		// given
		repository := serial.NewTransportRepositoryWithOpener(entities.SerialConfig{}, nil)

		// when
		_, err := repository.Open(context.Background(), entities.RemoteSessionEndpoint{Host: "10.0.0.1"})

		// then
		require.ErrorIs(t, err, entities.ErrUnsupportedEndpoint)
	})

	t.Run("should wrap the opener failure", func(t *testing.T) {
		t.Parallel()

		// given
		busy := errors.New("device busy")
		repository := serial.NewTransportRepositoryWithOpener(entities.SerialConfig{BaudRate: 9600},
			func(_ string, _ *goserial.Mode) (serial.Port, error) { return nil, busy })

		// when
		_, err := repository.Open(context.Background(), entities.SerialLinkEndpoint{DeviceNode: "ttyS1"})

		// then
		require.ErrorIs(t, err, busy)
		assert.Contains(t, err.Error(), "/dev/ttyS1")
	})
}

func TestSerialSessionApplyConfiguration(t *testing.T) {
	t.Parallel()

	t.Run("should send the preamble then one CR-LF frame per line", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{}
		session, _, _ := openFake(t, port)

		// when
		err := session.ApplyConfiguration(context.Background(), []string{"hostname R1", "interface Gi0/1"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"enable\r\n",
			"configure terminal\r\n",
			"hostname R1\r\n",
			"interface Gi0/1\r\n",
		}, port.frames)
	})

	t.Run("should restore an interface stanza over ttyUSB0", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{}
		session, path, _ := openFake(t, port)
		lines := entities.ConfigurationPayload("interface Gi0/1\nno shutdown\n").Lines()

		// when
		err := session.ApplyConfiguration(context.Background(), lines)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyUSB0", path)
		assert.Equal(t, []string{
			"enable\r\n",
			"configure terminal\r\n",
			"interface Gi0/1\r\n",
			"no shutdown\r\n",
		}, port.frames)
	})

	t.Run("should send blank lines as empty frames", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{}
		session, _, _ := openFake(t, port)

		// when
		err := session.ApplyConfiguration(context.Background(), []string{"a", "", "b"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"enable\r\n", "configure terminal\r\n", "a\r\n", "\r\n", "b\r\n"}, port.frames)
	})

	t.Run("should send only the preamble for no lines", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{}
		session, _, _ := openFake(t, port)

		// when
		err := session.ApplyConfiguration(context.Background(), []string{})

		// then
		require.NoError(t, err)
		assert.Len(t, port.frames, 2)
	})

	t.Run("should stop at the first write failure", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{writeErr: errors.New("i/o error")}
		session, _, _ := openFake(t, port)

		// when
		err := session.ApplyConfiguration(context.Background(), []string{"hostname R1"})

		// then
		require.ErrorContains(t, err, "i/o error")
		assert.Empty(t, port.frames)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{}
		session, _, _ := openFake(t, port)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := session.ApplyConfiguration(ctx, []string{"hostname R1"})

		// then
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, port.frames)
	})
}

func TestSerialSessionRetrieveConfiguration(t *testing.T) {
	t.Parallel()

	t.Run("should return the configuration without echo and prompt", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{reads: []string{
			"R1>enable\r\nR1#terminal length 0\r\nR1#show running-config\r\n",
			"hostname R1\r\n!\r\nend\r\n",
			"R1#",
		}}
		session, _, _ := openFake(t, port)

		// when
		text, err := session.RetrieveConfiguration(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, "hostname R1\n!\nend\n", text)
		assert.Equal(t, []string{"enable\r\n", "terminal length 0\r\n", "show running-config\r\n"}, port.frames)
		assert.Equal(t, time.Second, port.readTimeout)
	})

	t.Run("should close the port", func(t *testing.T) {
		t.Parallel()

		// given
		port := &fakePort{}
		session, _, _ := openFake(t, port)

		// when
		err := session.Close()

		// then
		require.NoError(t, err)
		assert.True(t, port.closed)
	})
}

func TestExtractConfiguration(t *testing.T) {
	t.Parallel()

	t.Run("should return an empty string for silence", func(t *testing.T) {
		t.Parallel()

		// given
		raw := ""

		// when
		text := serial.ExtractConfiguration(raw)

		// then
		assert.Empty(t, text)
	})

	t.Run("should keep everything when no echo is present", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "hostname R1\ninterface Gi0/1\n description uplink\n"

		// when
		text := serial.ExtractConfiguration(raw)

		// then
		assert.Equal(t, raw, text)
	})
	t.Run("should keep config lines that mention the show command", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "R1#show running-config\r\nBuilding configuration...\r\n\r\nhostname R1\r\n!\r\n" +
			"alias exec sr show running-config\r\nline vty 0 4\r\n login\r\nend\r\nR1#"

		// when
		text := serial.ExtractConfiguration(raw)

		// then
		assert.Equal(t,
			"Building configuration...\n\nhostname R1\n!\nalias exec sr show running-config\nline vty 0 4\n login\nend\n",
			text,
		)
	})

	t.Run("should ignore the show command inside a banner", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "R1#terminal length 0\r\nR1#show running-config\r\nhostname R1\r\n" +
			"banner motd ^C R1#show running-config is logged ^C\r\nend\r\nR1#"

		// when
		text := serial.ExtractConfiguration(raw)

		// then
		assert.Equal(t, "hostname R1\nbanner motd ^C R1#show running-config is logged ^C\nend\n", text)
	})
}
