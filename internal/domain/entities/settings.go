package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	GitDriverGoGit = "gogit"
	GitDriverCLI   = "cli"

	defaultRemoteBase  = "git@github.com:"
	defaultAuthorName  = "devicesync"
	defaultAuthorEmail = "devicesync@localhost"
	defaultDeviceType  = "cisco_ios"
	defaultSSHPort     = 22
	defaultSSHTimeout  = 10 * time.Second
	defaultBaudRate    = 9600
	defaultReadTimeout = 2 * time.Second
	maxTCPPort         = 65535
)

// Settings is the optional configuration file. Every field has a usable default,
// and CLI flags override the values under Defaults.
type Settings struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Git      GitConfig      `yaml:"git"`
	SSH      SSHConfig      `yaml:"ssh"`
	Serial   SerialConfig   `yaml:"serial"`
	Staging  StagingConfig  `yaml:"staging"`
}

// DefaultsConfig holds fallback values for the sync input fields.
type DefaultsConfig struct {
	Transport  string `yaml:"transport"`
	Account    string `yaml:"account"`
	Repository string `yaml:"repository"`
	DeviceType string `yaml:"device_type"`
	Host       string `yaml:"host"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"` // Inline, ${ENV_VAR}, or file path
	TTY        string `yaml:"tty"`
}

// GitConfig selects and tunes the version control driver.
type GitConfig struct {
	Driver      string `yaml:"driver"`      // "gogit" or "cli"
	RemoteBase  string `yaml:"remote_base"` // Prefix of "<account>/<repository>.git"
	SSHKeyFile  string `yaml:"ssh_key_file"`
	Token       string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// SSHConfig tunes the remote session transport.
type SSHConfig struct {
	Port                 int           `yaml:"port"`
	KnownHosts           string        `yaml:"known_hosts"`
	InsecureSkipVerify   bool          `yaml:"insecure_skip_verify"`
	Timeout              time.Duration `yaml:"timeout"`
	PrivateKeyFile       string        `yaml:"private_key_file"`
	PrivateKeyPassphrase string        `yaml:"private_key_passphrase"`
}

// SerialConfig tunes the serial link transport.
type SerialConfig struct {
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// StagingConfig controls where per-run working directories are created.
type StagingConfig struct {
	Dir string `yaml:"dir"` // Empty means the OS temporary directory
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewDefaultSettings returns the settings used when no configuration file exists.
func NewDefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving secret file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Defaults.Password = resolveSecret(settings.Defaults.Password)
	settings.Git.Token = resolveSecret(settings.Git.Token)
	settings.SSH.PrivateKeyPassphrase = resolveSecret(settings.SSH.PrivateKeyPassphrase)
	settings.applyDefaults()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}
	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".devicesync.yaml",
		".devicesync.yml",
		"devicesync.yaml",
		"devicesync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ApplyTo fills every empty field of input from the configured defaults.
func (it *Settings) ApplyTo(input SyncInput) SyncInput {
	fill := func(value *string, fallback string) {
		if *value == "" {
			*value = fallback
		}
	}
	fill(&input.Transport, it.Defaults.Transport)
	fill(&input.Account, it.Defaults.Account)
	fill(&input.Repository, it.Defaults.Repository)
	fill(&input.DeviceType, it.Defaults.DeviceType)
	fill(&input.Host, it.Defaults.Host)
	fill(&input.Username, it.Defaults.Username)
	fill(&input.Password, it.Defaults.Password)
	fill(&input.TTY, it.Defaults.TTY)
	return input
}

func (it *Settings) applyDefaults() {
	if it.Defaults.DeviceType == "" {
		it.Defaults.DeviceType = defaultDeviceType
	}
	if it.Git.Driver == "" {
		it.Git.Driver = GitDriverGoGit
	}
	if it.Git.RemoteBase == "" {
		it.Git.RemoteBase = defaultRemoteBase
	}
	if it.Git.AuthorName == "" {
		it.Git.AuthorName = defaultAuthorName
	}
	if it.Git.AuthorEmail == "" {
		it.Git.AuthorEmail = defaultAuthorEmail
	}
	if it.SSH.Port == 0 {
		it.SSH.Port = defaultSSHPort
	}
	if it.SSH.Timeout == 0 {
		it.SSH.Timeout = defaultSSHTimeout
	}
	if it.Serial.BaudRate == 0 {
		it.Serial.BaudRate = defaultBaudRate
	}
	if it.Serial.ReadTimeout == 0 {
		it.Serial.ReadTimeout = defaultReadTimeout
	}
}

// resolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the secret from the file.
func resolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the secret from it
	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks the values that have no sensible fallback.
func (it *Settings) validate() error {
	if it.Git.Driver != GitDriverGoGit && it.Git.Driver != GitDriverCLI {
		return fmt.Errorf("git.driver must be %q or %q, got %q", GitDriverGoGit, GitDriverCLI, it.Git.Driver)
	}
	if it.SSH.Port < 1 || it.SSH.Port > maxTCPPort {
		return fmt.Errorf("ssh.port must be between 1 and %d, got %d", maxTCPPort, it.SSH.Port)
	}
	if it.Serial.BaudRate < 0 {
		return fmt.Errorf("serial.baud_rate must be positive, got %d", it.Serial.BaudRate)
	}
	if it.Defaults.Transport != "" {
		if _, err := ParseTransportVariant(it.Defaults.Transport); err != nil {
			return fmt.Errorf("defaults.transport: %w", err)
		}
	}
	return nil
}
