package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable classification callers branch on
type ErrorKind string

const (
	KindInvalidInput          ErrorKind = "invalid_input"
	KindNotFound              ErrorKind = "not_found"
	KindForbidden             ErrorKind = "forbidden"
	KindBusinessRuleViolation ErrorKind = "business_rule_violation"
	KindConflict              ErrorKind = "conflict"
	KindUnauthenticated       ErrorKind = "unauthenticated"
	KindInternal              ErrorKind = "internal"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrAccountNotFound        = errors.New("account not found")
	ErrBetNotFound            = errors.New("bet not found")
	ErrSelfChallengeForbidden = errors.New("cannot challenge your own bet")
	ErrWagerTooLow            = errors.New("wager too low")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrBetNotChallengeable    = errors.New("bet no longer accepts challenges")
	ErrDuplicateAccount       = errors.New("handle or email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

// WagerTooLowError reports the minimum a challenge had to offer
type WagerTooLowError struct {
	Offered    int64
	MinAllowed int64
}

func (e *WagerTooLowError) Error() string {
	return fmt.Sprintf("wager must be at least %d, got %d", e.MinAllowed, e.Offered)
}

func (e *WagerTooLowError) Is(target error) bool {
	return target == ErrWagerTooLow
}

// InsufficientFundsError reports the balance that failed a debit
type InsufficientFundsError struct {
	Available int64
	Required  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %d, need %d", e.Available, e.Required)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// KindOf classifies an error. Anything unrecognised is Internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrBetNotFound):
		return KindNotFound
	case errors.Is(err, ErrSelfChallengeForbidden):
		return KindForbidden
	case errors.Is(err, ErrWagerTooLow), errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrBetNotChallengeable):
		return KindBusinessRuleViolation
	case errors.Is(err, ErrDuplicateAccount):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials):
		return KindUnauthenticated
	default:
		return KindInternal
	}
}
