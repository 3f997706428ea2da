package commands

// AppendError exports appendError for testing.
var AppendError = appendError //nolint:gochecknoglobals // test export
