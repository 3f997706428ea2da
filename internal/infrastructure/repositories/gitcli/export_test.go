package gitcli

// ShellQuote exports shellQuote for testing.
var ShellQuote = shellQuote //nolint:gochecknoglobals // test export
