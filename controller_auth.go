package bankgate

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
)

// AuthController serves the unauthenticated account lifecycle: sign-in,
// sign-up, confirmation, password recovery, and the guarded sign-out.
type AuthController struct {
	resolver     *Resolver
	logger       Logger
	errorHandler ErrorHandler
}

func NewAuthController(resolver *Resolver) *AuthController {
	return &AuthController{
		resolver:     resolver,
		logger:       defLogger{},
		errorHandler: NewJSONErrorHandler(nil),
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.logger = logger
	}
	return a
}

func (a *AuthController) WithErrorHandler(handler ErrorHandler) *AuthController {
	if handler != nil {
		a.errorHandler = handler
	}
	return a
}

// RegisterRoutes mounts the auth surface. Everything is public except
// sign-out, which needs a live token of either account type.
func (a *AuthController) RegisterRoutes(app RouteRegistrar, guard *AccessGuard) {
	public := guard.RequireAccountTypes()
	authenticated := guard.RequireAccountTypes(AccountTypeRegular, AccountTypeAgent)

	app.Post("/auth/sign-in", wrapHandler(a.SignIn, a.errorHandler), public)
	app.Post("/auth/challenge", wrapHandler(a.RespondToChallenge, a.errorHandler), public)
	app.Post("/auth/sign-up", wrapHandler(a.SignUp, a.errorHandler), public)
	app.Post("/auth/confirm", wrapHandler(a.ConfirmSignUp, a.errorHandler), public)
	app.Post("/auth/resend-code", wrapHandler(a.ResendCode, a.errorHandler), public)
	app.Post("/auth/forgot-password", wrapHandler(a.ForgotPassword, a.errorHandler), public)
	app.Post("/auth/confirm-forgot-password", wrapHandler(a.ConfirmForgotPassword, a.errorHandler), public)
	app.Post("/auth/sign-out", wrapHandler(a.SignOut, a.errorHandler), authenticated)
}

// SignInRequest payload
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignIn(ctx router.Context) error {
	payload := new(SignInRequest)

	if err := ctx.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	res, err := a.resolver.SignIn(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, res)
}

// ChallengeRequest answers a named sign-in challenge.
type ChallengeRequest struct {
	ChallengeName string `json:"challenge_name"`
	Session       string `json:"session"`
	Email         string `json:"email"`
	NewPassword   string `json:"new_password"`
}

func (r ChallengeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ChallengeName, validation.Required),
		validation.Field(&r.Session, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) RespondToChallenge(ctx router.Context) error {
	payload := new(ChallengeRequest)

	if err := ctx.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	res, err := a.resolver.RespondToAuthChallenge(ctx.Context(), payload.ChallengeName, payload.Session, ChallengeInput{
		Email:       payload.Email,
		NewPassword: payload.NewPassword,
	})
	if err != nil {
		return err
	}

	if res == nil {
		return ctx.JSON(router.StatusOK, map[string]any{
			"handled": false,
		})
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"handled":        true,
		"challenge_name": res.ChallengeName,
		"session":        res.Session,
	})
}

// SignUpRequest creates an account from a bare email; credentials and profile
// come later in the flow.
type SignUpRequest struct {
	Email string `json:"email"`
}

func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
	)
}

func (a *AuthController) SignUp(ctx router.Context) error {
	payload := new(SignUpRequest)

	if err := ctx.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := a.resolver.SignUpByEmail(ctx.Context(), payload.Email)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusCreated, user)
}

// ConfirmRequest carries the emailed verification code.
type ConfirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r ConfirmRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(4, 10), is.Digit),
	)
}

func (a *AuthController) ConfirmSignUp(ctx router.Context) error {
	payload := new(ConfirmRequest)

	if err := ctx.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	res, err := a.resolver.ConfirmSignUp(ctx.Context(), payload.Email, payload.Code)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, res)
}

// EmailRequest addresses an account by email alone.
type EmailRequest struct {
	Email string `json:"email"`
}

func (r EmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ResendCode(ctx router.Context) error {
	payload := new(EmailRequest)

	if err := ctx.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	if err := a.resolver.ResendConfirmationCode(ctx.Context(), payload.Email); err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"sent": true,
	})
}

func (a *AuthController) ForgotPassword(ctx router.Context) error {
	payload := new(EmailRequest)

	if err := ctx.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	destination, err := a.resolver.ForgotPassword(ctx.Context(), payload.Email)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"delivery_destination": destination,
	})
}

// ConfirmForgotPasswordRequest finalizes password recovery.
type ConfirmForgotPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (r ConfirmForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(4, 10), is.Digit),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) ConfirmForgotPassword(ctx router.Context) error {
	payload := new(ConfirmForgotPasswordRequest)

	if err := ctx.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	res, err := a.resolver.ConfirmForgotPassword(ctx.Context(), PasswordResetInput{
		Email:       payload.Email,
		Code:        payload.Code,
		NewPassword: payload.NewPassword,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, res)
}

func (a *AuthController) SignOut(ctx router.Context) error {
	token, err := CurrentToken(ctx)
	if err != nil {
		return err
	}

	if err := a.resolver.Logout(ctx.Context(), token); err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"signed_out": true,
	})
}
