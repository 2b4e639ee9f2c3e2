package bankgate

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

// GuardMessage is the fixed, human readable message attached to every guard
// rejection regardless of which check failed.
const GuardMessage = "You are not authorized to access this resource"

// LoginErrorMessage is intentionally generic so a failed sign-in does not
// reveal whether the email or the password was wrong.
const LoginErrorMessage = "Invalid username or password"

const (
	TextCodeUnauthenticated    = "unauthenticated"
	TextCodeGuardForbidden     = "guard_forbidden"
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeAccountExists      = "account_exists"
	TextCodeAlreadyConfirmed   = "account_already_confirmed"
	TextCodeAccountNotFound    = "account_not_found"
	TextCodeBusinessExists     = "business_profile_exists"
	TextCodeBusinessNotFound   = "business_profile_not_found"
	TextCodeProviderFailure    = "identity_provider_failure"
	TextCodeValidationFailed   = "validation_failed"
)

// ErrUnauthenticated is returned when no bearer token is present or the token
// does not resolve to a principal.
var ErrUnauthenticated = errors.New("missing or invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrGuardForbidden is returned when a resolved principal lacks the account
// type or sub-role a route requires.
var ErrGuardForbidden = errors.New(GuardMessage, errors.CategoryAuth).
	WithTextCode(TextCodeGuardForbidden).
	WithCode(errors.CodeForbidden)

// ErrInvalidCredentials is the single sign-in failure surfaced to clients.
var ErrInvalidCredentials = errors.New(LoginErrorMessage, errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountExists is returned when sign-up or agent creation hits an email
// that already has a local row.
var ErrAccountExists = errors.New("account already exists", errors.CategoryConflict).
	WithTextCode(TextCodeAccountExists).
	WithCode(errors.CodeConflict)

// ErrAlreadyConfirmed is returned when a confirmation flow is attempted on an
// account whose email and phone are both verified.
var ErrAlreadyConfirmed = errors.New("account already confirmed", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyConfirmed).
	WithCode(errors.CodeConflict)

// ErrAccountNotFound is returned when an operation references an email that
// has no local account.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrBusinessProfileExists is returned on duplicate business profile creation.
var ErrBusinessProfileExists = errors.New("business profile already exists", errors.CategoryConflict).
	WithTextCode(TextCodeBusinessExists).
	WithCode(errors.CodeConflict)

// ErrBusinessProfileNotFound is returned when updating an absent profile.
var ErrBusinessProfileNotFound = errors.New("business profile not found", errors.CategoryNotFound).
	WithTextCode(TextCodeBusinessNotFound).
	WithCode(errors.CodeNotFound)

// ProviderError wraps an unexpected identity provider failure, carrying the
// operation and the provider's own message. It is never swallowed; call sites
// wrap and re-surface it.
type ProviderError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "identity provider error"
	}
	if e.Message != "" {
		return fmt.Sprintf("identity provider %s failed: %s", e.Operation, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("identity provider %s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("identity provider %s failed", e.Operation)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsInvalidCredentials reports whether err carries the generic sign-in
// rejection, as opposed to an unexpected provider failure.
func IsInvalidCredentials(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeInvalidCredentials
	}
	return false
}

// WrapProviderError normalizes a provider failure into a rich error while
// keeping guard and precondition sentinels intact.
func WrapProviderError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return err
	}

	perr := &ProviderError{Operation: operation, Message: err.Error(), Err: err}
	return errors.Wrap(perr, errors.CategoryOperation, "identity provider request failed").
		WithTextCode(TextCodeProviderFailure).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{
			"operation": operation,
			"provider":  perr.Message,
		})
}
