package domain

import "errors"

var (
	ErrEmptyPrompt     = errors.New("empty prompt")
	ErrPromptTooLong   = errors.New("prompt too long")
	ErrNotFound        = errors.New("not found")
	ErrProviderFailure = errors.New("provider failure")
)
