package entities

import (
	"net"
	"path/filepath"
	"strconv"
)

const serialDeviceDir = "/dev"

// DeviceEndpoint describes how to reach a device. It is a closed set: only
// RemoteSessionEndpoint and SerialLinkEndpoint implement it, and each carries
// nothing but the fields its own transport needs.
type DeviceEndpoint interface {
	Variant() TransportVariant
	String() string
	isDeviceEndpoint()
}

// RemoteSessionEndpoint is a device reached over SSH.
type RemoteSessionEndpoint struct {
	DeviceKind string
	Host       string
	Username   string
	Secret     string
}

func (RemoteSessionEndpoint) Variant() TransportVariant { return TransportRemoteSession }
func (RemoteSessionEndpoint) isDeviceEndpoint()         {}

func (it RemoteSessionEndpoint) String() string {
	return it.Username + "@" + it.Host
}

// Address returns host:port, using defaultPort unless Host already carries one.
func (it RemoteSessionEndpoint) Address(defaultPort int) string {
	if _, _, err := net.SplitHostPort(it.Host); err == nil {
		return it.Host
	}
	return net.JoinHostPort(it.Host, strconv.Itoa(defaultPort))
}

// SerialLinkEndpoint is a device attached to a local serial node.
type SerialLinkEndpoint struct {
	DeviceNode string
}

func (SerialLinkEndpoint) Variant() TransportVariant { return TransportSerialLink }
func (SerialLinkEndpoint) isDeviceEndpoint()         {}

func (it SerialLinkEndpoint) String() string {
	return it.DevicePath()
}

// DevicePath resolves bare node names such as "ttyUSB0" under /dev.
func (it SerialLinkEndpoint) DevicePath() string {
	if filepath.IsAbs(it.DeviceNode) {
		return filepath.Clean(it.DeviceNode)
	}
	return filepath.Join(serialDeviceDir, it.DeviceNode)
}
