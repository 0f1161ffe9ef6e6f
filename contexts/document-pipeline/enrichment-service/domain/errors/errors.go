package errors

import "errors"

var (
	ErrEnrichmentNotFound       = errors.New("enrichment not found")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
