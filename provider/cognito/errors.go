package cognito

import (
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	bankgate "github.com/goliatone/bankgate"
	goerrors "github.com/goliatone/go-errors"
)

// translateError maps pool failures onto the package's error taxonomy.
// Credential-shaped failures collapse into the generic sign-in rejection so
// callers cannot tell a wrong password from a missing account.
func translateError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var notAuthorized *types.NotAuthorizedException
	var userNotFound *types.UserNotFoundException
	var passwordReset *types.PasswordResetRequiredException
	if stderrors.As(err, &notAuthorized) || stderrors.As(err, &userNotFound) || stderrors.As(err, &passwordReset) {
		return bankgate.ErrInvalidCredentials
	}

	var usernameExists *types.UsernameExistsException
	if stderrors.As(err, &usernameExists) {
		return bankgate.ErrAccountExists
	}

	var notConfirmed *types.UserNotConfirmedException
	if stderrors.As(err, &notConfirmed) {
		return goerrors.Wrap(err, goerrors.CategoryAuth, "account is not confirmed").
			WithTextCode("account_not_confirmed").
			WithCode(goerrors.CodeForbidden).
			WithMetadata(map[string]any{"operation": operation})
	}

	var codeMismatch *types.CodeMismatchException
	var codeExpired *types.ExpiredCodeException
	if stderrors.As(err, &codeMismatch) || stderrors.As(err, &codeExpired) {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "verification code is invalid or expired").
			WithTextCode("invalid_verification_code").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"operation": operation})
	}

	var invalidPassword *types.InvalidPasswordException
	if stderrors.As(err, &invalidPassword) {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "password does not meet the pool policy").
			WithTextCode("invalid_password").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"operation": operation})
	}

	var tooMany *types.TooManyRequestsException
	var limit *types.LimitExceededException
	if stderrors.As(err, &tooMany) || stderrors.As(err, &limit) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "identity provider throttled the request").
			WithTextCode("provider_throttled").
			WithCode(429).
			WithMetadata(map[string]any{"operation": operation})
	}

	return err
}
