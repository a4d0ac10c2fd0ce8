package core

import "errors"

// UnmatchedRoute is the metrics label for requests no route matched
const UnmatchedRoute = "<unmatched>"

// Lifecycle errors
var (
	ErrNotStarted     = errors.New("server not started")
	ErrAlreadyStarted = errors.New("server already started")
)
