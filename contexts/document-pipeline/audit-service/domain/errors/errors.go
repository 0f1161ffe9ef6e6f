package errors

import "errors"

var (
	ErrEventNotFound            = errors.New("audit record not found")
	ErrInvalidRequest           = errors.New("invalid audit request")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
