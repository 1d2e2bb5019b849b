package main

// Exit codes
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (no lexicon, missing workspace, bad config values)
	ExitDataError     = 3 // Data error (malformed CSV, vocabulary or array file)
	ExitShapeMismatch = 4 // Array dimensions disagree with the vocabularies or relation list
)
