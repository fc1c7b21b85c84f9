package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Job lifecycle errors
	ErrJobConflict     = fmt.Errorf("an active extraction job already exists")
	ErrJobNotFound     = fmt.Errorf("extraction job not found")
	ErrProjectNotFound = fmt.Errorf("project not found")
	ErrRepoNotFound    = fmt.Errorf("repository not found")
	ErrJobTerminal     = fmt.Errorf("job already in a terminal state")
	ErrPollTimeout     = fmt.Errorf("polling ceiling reached before job settled")

	// Upstream (Azure DevOps) errors
	ErrUpstreamAuth      = fmt.Errorf("upstream authentication failed")
	ErrUpstreamTimeout   = fmt.Errorf("upstream request timed out")
	ErrUpstreamRequest   = fmt.Errorf("upstream request failed")
	ErrMalformedResponse = fmt.Errorf("malformed upstream response")
	ErrConnectionFailed  = fmt.Errorf("connection test failed")

	// Input validation errors
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrMissingArgument     = fmt.Errorf("missing required argument")
	ErrInvalidArgument     = fmt.Errorf("invalid argument")
	ErrUnknownArtifactType = fmt.Errorf("unknown artifact type")
)
