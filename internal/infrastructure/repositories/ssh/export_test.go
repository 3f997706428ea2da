package ssh

// BatchFor renders lines as the configuration session sent to deviceKind.
func BatchFor(deviceKind string, lines []string) string {
	return dialectFor(deviceKind).batch(lines)
}

// ShowRunningFor returns the retrieval command used for deviceKind.
func ShowRunningFor(deviceKind string) string {
	return dialectFor(deviceKind).showRunning
}

// FindRejections exports findRejections for testing.
var FindRejections = findRejections //nolint:gochecknoglobals // test export
