package model

import (
	"errors"
	"fmt"
)

var (
	ErrModelNotFound      = errors.New("model not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrChatDoesNotExist   = errors.New("chat does not exist")
	ErrBlobDoesNotExist   = errors.New("blob does not exist")
	ErrChatAccessDenied   = errors.New("chat belongs to another user")
	ErrTurnInProgress     = errors.New("previous turn still awaiting response")
)

// InputError reports an empty or malformed command argument. It is
// surfaced inline to the user and never retried.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func NewInputError(format string, a ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, a...)}
}

func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// QuotaExceededError reports that a daily quota ceiling was reached.
// Msg, when set, is the user-facing denial text.
type QuotaExceededError struct {
	Kind QuotaKind
	Msg  string
}

func (e *QuotaExceededError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("daily %s quota exceeded", e.Kind)
}

func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// ProviderError reports a failed provider or collaborator call with a
// human-readable cause.
type ProviderError struct {
	Cause string
	Err   error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Cause, e.Err)
	}
	return e.Cause
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(cause string, err error) error {
	return &ProviderError{Cause: cause, Err: err}
}

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
