package repository

import "errors"

// Sentinel errors for storage facts. Services translate them into domain errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrLockTimeout = errors.New("lock wait timeout")
	ErrNoTx        = errors.New("operation requires a transaction")
)
