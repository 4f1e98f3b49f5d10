package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrNotOwned           = errors.New("entity is owned by another user")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrParseFailure       = errors.New("no time expression recognized")
	ErrTimeInPast         = errors.New("resolved time is in the past")
	ErrAlreadyTerminal    = errors.New("reminder is already sent or cancelled")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context for query")
)
