package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	logger "github.com/sirupsen/logrus"
	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/rios0rios0/devicesync/internal/domain/entities"
	"github.com/rios0rios0/devicesync/internal/domain/repositories"
)

// TransportRepository implements repositories.TransportRepository for devices
// reached over SSH.
type TransportRepository struct {
	cfg entities.SSHConfig
}

var _ repositories.TransportRepository = (*TransportRepository)(nil)

// NewTransportRepository creates the SSH transport from the settings.
func NewTransportRepository(settings *entities.Settings) repositories.TransportRepository {
	return &TransportRepository{cfg: settings.SSH}
}

func (it *TransportRepository) Variant() entities.TransportVariant {
	return entities.TransportRemoteSession
}

func (it *TransportRepository) Open(
	ctx context.Context,
	endpoint entities.DeviceEndpoint,
) (repositories.Session, error) {
	remote, ok := endpoint.(entities.RemoteSessionEndpoint)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot open %s", entities.ErrUnsupportedEndpoint, it.Variant(), endpoint.Variant())
	}

	clientConfig, err := it.clientConfig(remote)
	if err != nil {
		return nil, err
	}

	address := remote.Address(it.cfg.Port)
	client, err := dial(ctx, address, clientConfig, it.cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Connected to %s as %s", address, remote.Username)

	return &Session{client: client, dialect: dialectFor(remote.DeviceKind)}, nil
}

func (it *TransportRepository) clientConfig(remote entities.RemoteSessionEndpoint) (*gossh.ClientConfig, error) {
	callback, err := buildHostKeyCallback(it.cfg)
	if err != nil {
		return nil, err
	}
	methods, err := buildAuthMethods(it.cfg, remote.Secret)
	if err != nil {
		return nil, err
	}
	return &gossh.ClientConfig{
		User:            remote.Username,
		Auth:            methods,
		HostKeyCallback: callback,
		Timeout:         it.cfg.Timeout,
	}, nil
}

func buildHostKeyCallback(cfg entities.SSHConfig) (gossh.HostKeyCallback, error) {
	if cfg.KnownHosts != "" {
		callback, err := knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("error parsing known_hosts file from path: %w", err)
		}
		return callback, nil
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("SSH host key verification is disabled - connections are insecure!")
		return gossh.InsecureIgnoreHostKey(), nil //nolint:gosec // explicitly requested in settings
	}
	return nil, errors.New("no SSH host key verification configured: set ssh.known_hosts or ssh.insecure_skip_verify")
}

func buildAuthMethods(cfg entities.SSHConfig, secret string) ([]gossh.AuthMethod, error) {
	var methods []gossh.AuthMethod

	if cfg.PrivateKeyFile != "" {
		key, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("error reading private key: %w", err)
		}

		var signer gossh.Signer
		if cfg.PrivateKeyPassphrase != "" {
			signer, err = gossh.ParsePrivateKeyWithPassphrase(key, []byte(cfg.PrivateKeyPassphrase))
		} else {
			signer, err = gossh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing private key: %w", err)
		}
		methods = append(methods, gossh.PublicKeys(signer))
	}

	if secret != "" {
		// many network devices only offer keyboard-interactive for passwords
		methods = append(methods,
			gossh.Password(secret),
			gossh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = secret
				}
				return answers, nil
			}),
		)
	}

	if len(methods) == 0 {
		return nil, errors.New("no SSH authentication methods configured")
	}
	return methods, nil
}

func dial(
	ctx context.Context,
	address string,
	clientConfig *gossh.ClientConfig,
	cfg entities.SSHConfig,
) (*gossh.Client, error) {
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	clientConn, chans, reqs, err := gossh.NewClientConn(conn, address, clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", address, err)
	}
	return gossh.NewClient(clientConn, chans, reqs), nil
}

// Session is an open SSH connection to one device. Each operation uses its own
// channel, as devices often reject a second command on the same channel.
type Session struct {
	client  *gossh.Client
	dialect dialect
}

var _ repositories.Session = (*Session)(nil)

func (it *Session) RetrieveConfiguration(ctx context.Context) (string, error) {
	channel, err := it.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer channel.Close()
	stop := context.AfterFunc(ctx, func() { _ = channel.Close() })
	defer stop()

	logger.Debugf("Executing command: %s", it.dialect.showRunning)
	output, err := channel.CombinedOutput(it.dialect.showRunning)
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w", it.dialect.showRunning, err)
	}
	return string(output), nil
}

func (it *Session) ApplyConfiguration(ctx context.Context, lines []string) error {
	channel, err := it.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer channel.Close()
	stop := context.AfterFunc(ctx, func() { _ = channel.Close() })
	defer stop()

	stdin, err := channel.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdin: %w", err)
	}
	var output bytes.Buffer
	channel.Stdout = &output
	channel.Stderr = &output

	if err = channel.Shell(); err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	if _, err = stdin.Write([]byte(it.dialect.batch(lines))); err != nil {
		return fmt.Errorf("failed to send configuration: %w", err)
	}
	if err = stdin.Close(); err != nil {
		return fmt.Errorf("failed to close stdin: %w", err)
	}

	var exitMissing *gossh.ExitMissingError
	if err = channel.Wait(); err != nil && !errors.As(err, &exitMissing) {
		return fmt.Errorf("configuration session failed: %w", err)
	}

	for _, rejected := range findRejections(output.String()) {
		logger.Warnf("Device rejected configuration line: %s", rejected)
	}
	logger.Debugf("Applied %d configuration lines", len(lines))
	return nil
}

func (it *Session) Close() error {
	if err := it.client.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
