package database

import (
	"github.com/cockroachdb/errors"
)

// Error kinds. Callers test for them with errors.Is; the underlying driver
// error stays attached for logging but is never shown to Slack users.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceLimit      = errors.New("balance limit exceeded")
	ErrUnavailable       = errors.New("store unavailable")
)

func unavailable(err error, op string) error {
	return errors.Mark(errors.Wrap(err, op), ErrUnavailable)
}

func notFound(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func conflict(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrConflict)
}

func insufficientFunds(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInsufficientFunds)
}

func balanceLimit(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrBalanceLimit)
}
