package main

// Exit codes returned by the refmint CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable cache, bad paths)
	ExitDataError   = 3 // Data error (invalid citekeys, failed retrievals, schema violations)
)
