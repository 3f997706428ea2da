package entities

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	deviceKindPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	deviceNodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// SyncInput holds the raw values collected from flags and settings before validation.
type SyncInput struct {
	Direction     Direction
	Transport     string
	DeviceName    string
	Account       string
	Repository    string
	CommitMessage string
	DeviceType    string
	Host          string
	Username      string
	Password      string
	TTY           string
}

// Supplied maps every field to its raw value, for the validation matrix.
func (it SyncInput) Supplied() map[Field]string {
	return map[Field]string{
		FieldName:          it.DeviceName,
		FieldAccount:       it.Account,
		FieldRepository:    it.Repository,
		FieldCommitMessage: it.CommitMessage,
		FieldTransport:     it.Transport,
		FieldDeviceType:    it.DeviceType,
		FieldHost:          it.Host,
		FieldUsername:      it.Username,
		FieldPassword:      it.Password,
		FieldTTY:           it.TTY,
	}
}

// SyncRequest is a validated, immutable description of one run.
type SyncRequest struct {
	direction     Direction
	endpoint      DeviceEndpoint
	target        RepositoryTarget
	commitMessage string
}

// NewSyncRequest validates the input against the option matrix and the naming
// rules, then builds the endpoint variant selected by the transport.
func NewSyncRequest(input SyncInput) (*SyncRequest, error) {
	if input.Direction != DirectionPull && input.Direction != DirectionPush {
		return nil, &InvalidFieldError{Field: "direction", Reason: "must be pull or push"}
	}

	rawTransport := input.Transport
	if strings.TrimSpace(rawTransport) == "" {
		rawTransport = string(DefaultTransport(input.Direction))
	}
	variant, err := ParseTransportVariant(rawTransport)
	if err != nil {
		return nil, err
	}

	if err = ValidateFields(input.Direction, variant, input.Supplied()); err != nil {
		return nil, err
	}

	target := RepositoryTarget{
		Account:    strings.TrimSpace(input.Account),
		Repository: strings.TrimSpace(input.Repository),
		DeviceName: strings.TrimSpace(input.DeviceName),
	}
	if err = validateTarget(target); err != nil {
		return nil, err
	}

	request := &SyncRequest{direction: input.Direction, target: target}
	if input.Direction == DirectionPull {
		if strings.ContainsRune(input.CommitMessage, 0) {
			return nil, &InvalidFieldError{Field: FieldCommitMessage, Reason: "contains a NUL byte"}
		}
		request.commitMessage = input.CommitMessage
	}

	switch variant {
	case TransportSerialLink:
		request.endpoint, err = newSerialLinkEndpoint(input)
	case TransportRemoteSession:
		request.endpoint, err = newRemoteSessionEndpoint(input)
	}
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (it *SyncRequest) Direction() Direction { return it.direction }
func (it *SyncRequest) Endpoint() DeviceEndpoint { return it.endpoint }
func (it *SyncRequest) Target() RepositoryTarget { return it.target }
func (it *SyncRequest) CommitMessage() string { return it.commitMessage }

func validateTarget(target RepositoryTarget) error {
	checks := []struct {
		field Field
		value string
	}{
		{FieldName, target.DeviceName},
		{FieldAccount, target.Account},
		{FieldRepository, target.Repository},
	}
	for _, check := range checks {
		if !namePattern.MatchString(check.value) {
			return &InvalidFieldError{
				Field:  check.field,
				Reason: "only letters, digits, '.', '_' and '-' are allowed, starting with a letter or digit",
			}
		}
	}
	return nil
}

func newRemoteSessionEndpoint(input SyncInput) (DeviceEndpoint, error) {
	kind := strings.TrimSpace(input.DeviceType)
	if !deviceKindPattern.MatchString(kind) {
		return nil, &InvalidFieldError{Field: FieldDeviceType, Reason: "expected a device kind such as cisco_ios"}
	}
	return RemoteSessionEndpoint{
		DeviceKind: kind,
		Host:       strings.TrimSpace(input.Host),
		Username:   input.Username,
		Secret:     input.Password,
	}, nil
}

func newSerialLinkEndpoint(input SyncInput) (DeviceEndpoint, error) {
	node := strings.TrimSpace(input.TTY)
	if filepath.IsAbs(node) {
		if strings.Contains(node, "..") {
			return nil, &InvalidFieldError{Field: FieldTTY, Reason: "path must not contain '..'"}
		}
		return SerialLinkEndpoint{DeviceNode: node}, nil
	}
	if !deviceNodePattern.MatchString(node) {
		return nil, &InvalidFieldError{Field: FieldTTY, Reason: "expected a node name such as ttyUSB0 or an absolute path"}
	}
	return SerialLinkEndpoint{DeviceNode: node}, nil
}
