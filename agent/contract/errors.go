package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrRemoteMemory    = errors.New("remote memory request failed")
	ErrEntryNotFound   = errors.New("memory entry not found")
)
