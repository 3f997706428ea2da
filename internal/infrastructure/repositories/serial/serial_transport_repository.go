package serial

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	goserial "go.bug.st/serial"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/domain/repositories"
)

const (
	lineTerminator = "\r\n"
	showRunning    = "show running-config"
	readChunkSize  = 4096
	dataBits       = 8
)

var (
	applyPreamble    = []string{"enable", "configure terminal"}
	retrievePreamble = []string{"enable", "terminal length 0", showRunning}
)

// Port is the part of a serial port the transport uses.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// PortOpener opens the serial device at path.
type PortOpener func(path string, mode *goserial.Mode) (Port, error)

// TransportRepository implements repositories.TransportRepository for devices on
// a local serial console.
type TransportRepository struct {
	cfg  entities.SerialConfig
	open PortOpener
}

var _ repositories.TransportRepository = (*TransportRepository)(nil)

// NewTransportRepository creates the serial transport from the settings.
func NewTransportRepository(settings *entities.Settings) repositories.TransportRepository {
	return NewTransportRepositoryWithOpener(settings.Serial, openPort)
}

// NewTransportRepositoryWithOpener creates a serial transport that opens ports through opener.
func NewTransportRepositoryWithOpener(cfg entities.SerialConfig, opener PortOpener) *TransportRepository {
	return &TransportRepository{cfg: cfg, open: opener}
}

func (it *TransportRepository) Variant() entities.TransportVariant {
	return entities.TransportSerialLink
}

func (it *TransportRepository) Open(
	_ context.Context,
	endpoint entities.DeviceEndpoint,
) (repositories.Session, error) {
	link, ok := endpoint.(entities.SerialLinkEndpoint)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot open %s", entities.ErrUnsupportedEndpoint, it.Variant(), endpoint.Variant())
	}

	path := link.DevicePath()
	port, err := it.open(path, &goserial.Mode{
		BaudRate: it.cfg.BaudRate,
		DataBits: dataBits,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	logger.Debugf("Opened serial port %s at %d baud", path, it.cfg.BaudRate)

	return &Session{port: port, readTimeout: it.cfg.ReadTimeout}, nil
}

func openPort(path string, mode *goserial.Mode) (Port, error) {
	port, err := goserial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// Session is an open serial console. Writes are fire-and-forget: nothing read
// back confirms that the device accepted a line.
type Session struct {
	port        Port
	readTimeout time.Duration
}

var _ repositories.Session = (*Session)(nil)

// ApplyConfiguration enters configuration mode and writes one CR-LF terminated
// frame per line, blank lines included.
func (it *Session) ApplyConfiguration(ctx context.Context, lines []string) error {
	if err := it.writeFrames(ctx, applyPreamble); err != nil {
		return err
	}
	if err := it.writeFrames(ctx, lines); err != nil {
		return err
	}
	logger.Debugf("Wrote %d configuration lines to the serial console", len(lines))
	return nil
}

// RetrieveConfiguration asks for the running configuration and reads until the
// console has been quiet for the read timeout.
func (it *Session) RetrieveConfiguration(ctx context.Context) (string, error) {
	if err := it.writeFrames(ctx, retrievePreamble); err != nil {
		return "", err
	}
	raw, err := it.readUntilIdle(ctx)
	if err != nil {
		return "", err
	}
	return extractConfiguration(raw), nil
}

func (it *Session) Close() error {
	return it.port.Close()
}

func (it *Session) writeFrames(ctx context.Context, lines []string) error {
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := it.port.Write([]byte(line + lineTerminator)); err != nil {
			return fmt.Errorf("failed to write %q: %w", line, err)
		}
	}
	return nil
}

func (it *Session) readUntilIdle(ctx context.Context) (string, error) {
	if err := it.port.SetReadTimeout(it.readTimeout); err != nil {
		return "", fmt.Errorf("failed to set read timeout: %w", err)
	}

	var output strings.Builder
	buffer := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := it.port.Read(buffer)
		if err != nil {
			return "", fmt.Errorf("failed to read from serial port: %w", err)
		}
		if n == 0 {
			// timeout with no data
			return output.String(), nil
		}
		output.Write(buffer[:n])
	}
}

// extractConfiguration keeps what follows the echoed show command and drops the
// prompt printed after it. Only the first prompt line ending in the command
// counts as the echo, so config lines mentioning it are kept.
func extractConfiguration(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	for i, line := range lines {
		if isShowRunningEcho(line) {
			lines = lines[i+1:]
			break
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && isPrompt(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func isPrompt(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && !strings.ContainsAny(trimmed, " \t") &&
		(strings.HasSuffix(trimmed, "#") || strings.HasSuffix(trimmed, ">"))
}

func isShowRunningEcho(line string) bool {
	trimmed := strings.TrimSpace(line)
	prompt, found := strings.CutSuffix(trimmed, showRunning)
	return found && isPrompt(prompt)
}
