package errors

import "errors"

var (
	ErrInvalidRequest           = errors.New("invalid notification request")
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrChannelUnavailable       = errors.New("notification channel unavailable")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
