package ssh

import (
	"strings"

	logger "github.com/sirupsen/logrus"
)

// dialect holds the commands a device kind understands.
type dialect struct {
	showRunning string
	configEnter string
	configExit  string
	logout      string
}

var ciscoDialect = dialect{
	showRunning: "show running-config",
	configEnter: "configure terminal",
	configExit:  "end",
	logout:      "exit",
}

var dialects = map[string]dialect{
	"cisco_ios":  ciscoDialect,
	"cisco_xe":   ciscoDialect,
	"cisco_nxos": ciscoDialect,
	"cisco_asa":  ciscoDialect,
	"arista_eos": ciscoDialect,
	"juniper_junos": {
		showRunning: "show configuration | display set",
		configEnter: "configure",
		configExit:  "commit and-quit",
		logout:      "exit",
	},
}

// rejectionMarkers are printed by devices that refused a configuration line.
var rejectionMarkers = []string{
	"% Invalid input",
	"% Incomplete command",
	"% Ambiguous command",
	"syntax error",
	"unknown command",
}

func dialectFor(deviceKind string) dialect {
	if d, ok := dialects[deviceKind]; ok {
		return d
	}
	logger.Warnf("Unknown device type %q, falling back to Cisco IOS commands", deviceKind)
	return ciscoDialect
}

// batch renders the lines as one configuration session.
func (d dialect) batch(lines []string) string {
	var builder strings.Builder
	builder.WriteString(d.configEnter + "\n")
	for _, line := range lines {
		builder.WriteString(line + "\n")
	}
	builder.WriteString(d.configExit + "\n")
	builder.WriteString(d.logout + "\n")
	return builder.String()
}

func findRejections(output string) []string {
	var rejected []string
	for _, line := range strings.Split(output, "\n") {
		for _, marker := range rejectionMarkers {
			if strings.Contains(line, marker) {
				rejected = append(rejected, strings.TrimSpace(line))
				break
			}
		}
	}
	return rejected
}
