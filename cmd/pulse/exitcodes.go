package main

// Exit codes. Agent callers branch on these, so they are contract.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, no user id)
	ExitDataError   = 3 // Data error (not found, empty cache, API failure)
	ExitAuthError   = 4 // Missing or invalid API key
)
