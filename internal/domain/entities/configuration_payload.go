package entities

import "strings"

// ConfigurationPayload is the raw configuration text exchanged during a run.
type ConfigurationPayload string

// Lines splits the payload into the ordered lines replayed to a device.
// Embedded blank lines are kept; the empty remainder after a final newline is not
// a line. A CR-LF file is normalised: the trailing carriage return of each line is
// dropped since every transport frames its own lines. Indentation and other
// whitespace are left untouched.
func (it ConfigurationPayload) Lines() []string {
	if it == "" {
		return []string{}
	}
	lines := strings.Split(string(it), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
