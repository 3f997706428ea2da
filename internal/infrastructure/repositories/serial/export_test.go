package serial

// ExtractConfiguration exports extractConfiguration for testing.
var ExtractConfiguration = extractConfiguration //nolint:gochecknoglobals // test export
