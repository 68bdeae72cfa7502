package main

// Exit codes
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (missing config, invalid paths)
	ExitDataError    = 3 // Data error (unreadable or malformed input)
	ExitCounterError = 4 // Page counter could not be read or written
)
