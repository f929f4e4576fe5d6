// Package apperror defines the typed errors services return to the boundary.
// Every error carries a Kind, a human readable message and structured fields
// (ids, statuses, amounts) for logging and diagnostics.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/money"
)

// Kind classifies an error independently of any transport.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindUnauthorized      Kind = "unauthorized"
	KindInvalidOperation  Kind = "invalid_operation"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindConflict          Kind = "conflict"
	KindValidation        Kind = "validation"
	KindUnauthenticated   Kind = "unauthenticated"
	KindForbidden         Kind = "forbidden"
	KindTimeout           Kind = "timeout"
	KindInternal          Kind = "internal"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// With adds a structured field and returns the receiver.
func (e *Error) With(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// NotFound reports a missing or invisible resource.
func NotFound(resource string, id any) *Error {
	return New(KindNotFound, fmt.Sprintf("%s not found with id %v", resource, id)).
		With("resource", resource).
		With("id", id)
}

// InsufficientFunds carries both the required and the available amounts.
func InsufficientFunds(cardID uuid.UUID, required, available decimal.Decimal) *Error {
	return New(KindInsufficientFunds, fmt.Sprintf("Insufficient funds. Required: %s, Available: %s",
		money.Format(required), money.Format(available))).
		With("card_id", cardID).
		With("required", money.Format(required)).
		With("available", money.Format(available))
}

// InvalidTransition reports a status change requested from a status outside the accepted set.
func InvalidTransition(action string, cardID uuid.UUID, current models.CardStatus, allowed []models.CardStatus) *Error {
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	sort.Strings(names)
	return New(KindInvalidOperation, fmt.Sprintf("Cannot %s. Card %s is in status %s, but expected one of [%s].",
		action, cardID, current, strings.Join(names, ", "))).
		With("action", action).
		With("card_id", cardID).
		With("status", current).
		With("allowed", names)
}
