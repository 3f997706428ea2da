package entities

import (
	"fmt"
	"strings"
)

// Direction identifies which way a configuration flows during a run.
type Direction string

const (
	// DirectionPull reads the configuration from the device and commits it to the repository.
	DirectionPull Direction = "pull"
	// DirectionPush reads the configuration from the repository and applies it to the device.
	DirectionPush Direction = "push"
)

// TransportVariant identifies how the device is reached.
type TransportVariant string

const (
	// TransportRemoteSession is an authenticated SSH session to the device.
	TransportRemoteSession TransportVariant = "ssh"
	// TransportSerialLink is a direct byte stream to a locally attached console.
	TransportSerialLink TransportVariant = "serial"
)

// ParseTransportVariant converts user input into a TransportVariant (case-insensitive).
func ParseTransportVariant(raw string) (TransportVariant, error) {
	switch TransportVariant(strings.ToLower(strings.TrimSpace(raw))) {
	case TransportRemoteSession:
		return TransportRemoteSession, nil
	case TransportSerialLink:
		return TransportSerialLink, nil
	default:
		return "", &InvalidFieldError{
			Field:  FieldTransport,
			Reason: fmt.Sprintf("%q is not a transport, use %q or %q", raw, TransportSerialLink, TransportRemoteSession),
		}
	}
}

// DefaultTransport returns the transport used when none is given: pulls back up over SSH,
// pushes restore through the console.
func DefaultTransport(direction Direction) TransportVariant {
	if direction == DirectionPush {
		return TransportSerialLink
	}
	return TransportRemoteSession
}
