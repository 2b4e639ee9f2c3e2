package bankgate

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// LoginResult is what a sign-in attempt yields: either provider tokens plus
// the matched local account, or a challenge the client must answer before
// re-submitting sign-in.
type LoginResult struct {
	AccessToken   string `json:"access_token,omitempty"`
	RefreshToken  string `json:"refresh_token,omitempty"`
	IDToken       string `json:"id_token,omitempty"`
	ChallengeName string `json:"challenge_name,omitempty"`
	Session       string `json:"session,omitempty"`
	User          *User  `json:"user,omitempty"`
	Agent         *Agent `json:"agent,omitempty"`
}

// CreateAgentInput describes a new administrative account.
type CreateAgentInput struct {
	Email string      `json:"email"`
	Name  string      `json:"name,omitempty"`
	Roles []AgentRole `json:"roles,omitempty"`
	// ID optionally pins the local row id; zero means the store assigns one.
	ID uuid.UUID `json:"-"`
	// SuppressNotification skips the provider's invite message. Used by the
	// startup bootstrap, not by user-facing invites.
	SuppressNotification bool `json:"-"`
}

// Resolver orchestrates sign-in, sign-up, confirmation, password flows, and
// token-to-principal resolution against the identity provider and the local
// stores. Every mutating operation calls the provider first and the store
// second, so the local store is never ahead of the provider's view.
type Resolver struct {
	provider IdentityProvider
	users    UserStore
	agents   AgentStore
	logger   Logger
	metrics  MetricsCollector
}

// NewResolver returns a Resolver over the given provider and stores.
func NewResolver(provider IdentityProvider, users UserStore, agents AgentStore) *Resolver {
	return &Resolver{
		provider: provider,
		users:    users,
		agents:   agents,
		logger:   defLogger{},
		metrics:  noopMetrics{},
	}
}

func (r *Resolver) WithLogger(logger Logger) *Resolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *Resolver) WithMetrics(metrics MetricsCollector) *Resolver {
	if metrics != nil {
		r.metrics = metrics
	}
	return r
}

// SignIn submits credentials to the provider and matches the result to a
// local account, users first, agents second. Provider auth failures and
// unknown emails collapse into the same generic rejection so callers cannot
// enumerate accounts.
func (r *Resolver) SignIn(ctx context.Context, email, password string) (*LoginResult, error) {
	res, err := r.provider.SignIn(ctx, email, password)
	if err != nil {
		if IsInvalidCredentials(err) {
			r.metrics.RecordSignIn(SignInRejected)
			return nil, ErrInvalidCredentials
		}
		r.metrics.RecordProviderFailure("sign_in")
		return nil, WrapProviderError("sign_in", err)
	}

	principal, err := r.findAccountByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			r.metrics.RecordSignIn(SignInRejected)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	out := &LoginResult{
		User:  principal.User,
		Agent: principal.Agent,
	}

	if !res.Completed() {
		out.ChallengeName = res.ChallengeName
		out.Session = res.Session
		r.metrics.RecordSignIn(SignInChallenge)
		return out, nil
	}

	out.AccessToken = res.Tokens.AccessToken
	out.RefreshToken = res.Tokens.RefreshToken
	out.IDToken = res.Tokens.IDToken
	r.metrics.RecordSignIn(SignInSuccess)
	return out, nil
}

// RespondToAuthChallenge forwards a challenge answer to the provider. Only
// the new-password challenge is handled; any other name returns an empty
// result without a provider call. Successful resolution does not sign the
// caller in; sign-in must be re-submitted.
func (r *Resolver) RespondToAuthChallenge(ctx context.Context, challengeName, session string, input ChallengeInput) (*SignInResult, error) {
	switch challengeName {
	case ChallengeNewPasswordRequired:
		res, err := r.provider.RespondToAuthChallenge(ctx, challengeName, session, input)
		if err != nil {
			r.metrics.RecordProviderFailure("respond_to_auth_challenge")
			return nil, WrapProviderError("respond_to_auth_challenge", err)
		}
		return res, nil
	}

	r.logger.Info("unhandled auth challenge", "challenge", challengeName)
	return nil, nil
}

// SignUpByEmail creates the account with the provider and mirrors it locally.
// The duplicate check runs before the provider call so a conflict leaves no
// provider-side residue.
func (r *Resolver) SignUpByEmail(ctx context.Context, email string) (*User, error) {
	exists, err := r.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}

	res, err := r.provider.CreateUserByEmail(ctx, email)
	if err != nil {
		r.metrics.RecordProviderFailure("create_user")
		return nil, WrapProviderError("create_user", err)
	}

	record := &User{
		Email:             email,
		ProviderID:        res.SubjectID,
		ConfirmationEmail: res.Confirmed,
		SubRole:           SubRoleIndividual,
	}

	return r.users.Register(ctx, record)
}

// ConfirmSignUp forwards the verification code and flips exactly one
// confirmation flag, email first. On success it signs the account in with an
// empty password: the provider treats the just-confirmed session as
// authenticated for that call. Compatibility shortcut, do not generalize.
func (r *Resolver) ConfirmSignUp(ctx context.Context, email, code string) (*LoginResult, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundAsAccount(err)
	}

	if user.FullyConfirmed() {
		return nil, ErrAlreadyConfirmed
	}

	if err := r.provider.ConfirmSignUp(ctx, email, code); err != nil {
		r.metrics.RecordProviderFailure("confirm_sign_up")
		return nil, WrapProviderError("confirm_sign_up", err)
	}

	if target := nextConfirmationTarget(user); target != "" {
		if _, err := r.users.SetConfirmation(ctx, user.ID, target, true); err != nil {
			return nil, err
		}
	}

	return r.SignIn(ctx, email, "")
}

// ResendConfirmationCode re-sends the sign-up code for an unconfirmed account.
func (r *Resolver) ResendConfirmationCode(ctx context.Context, email string) error {
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		return notFoundAsAccount(err)
	}

	if user.FullyConfirmed() {
		return ErrAlreadyConfirmed
	}

	if err := r.provider.ResendConfirmationCode(ctx, email); err != nil {
		r.metrics.RecordProviderFailure("resend_confirmation_code")
		return WrapProviderError("resend_confirmation_code", err)
	}
	return nil
}

// PrincipalFromToken resolves a bearer token into a typed principal with a
// single provider round trip. The provider's account-type attribute routes
// the subject to the matching store; a missing attribute fails closed as
// Unauthenticated rather than guessing a store.
func (r *Resolver) PrincipalFromToken(ctx context.Context, token string) (*Principal, error) {
	providerUser, err := r.provider.GetUser(ctx, token)
	if err != nil {
		r.logger.Debug("token resolution rejected by provider", "error", err)
		return nil, ErrUnauthenticated
	}

	accountType, ok := providerUser.Attribute(AccountTypeAttribute)
	if !ok {
		r.logger.Error("provider user missing account type attribute",
			"subject", providerUser.SubjectID, "attribute", AccountTypeAttribute)
		return nil, ErrUnauthenticated
	}

	switch accountType {
	case AccountTypeRegular:
		user, err := r.users.FindByProviderID(ctx, providerUser.SubjectID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return nil, ErrUnauthenticated
			}
			return nil, err
		}
		return NewUserPrincipal(user), nil

	case AccountTypeAgent:
		agent, err := r.agents.FindByProviderID(ctx, providerUser.SubjectID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return nil, ErrUnauthenticated
			}
			return nil, err
		}
		return NewAgentPrincipal(agent), nil
	}

	r.logger.Error("provider user has unknown account type",
		"subject", providerUser.SubjectID, "account_type", accountType)
	return nil, ErrUnauthenticated
}

// ChangePassword delegates entirely to the provider. An empty old password
// signals a first-time set, not an omitted field.
func (r *Resolver) ChangePassword(ctx context.Context, token, newPassword, oldPassword string) error {
	if err := r.provider.ChangePassword(ctx, token, newPassword, oldPassword); err != nil {
		r.metrics.RecordProviderFailure("change_password")
		return WrapProviderError("change_password", err)
	}
	return nil
}

// UpdateContact changes email and/or phone: provider first, then the local
// row. The users repository resets the matching confirmation flags at
// persistence time.
func (r *Resolver) UpdateContact(ctx context.Context, token string, update ContactUpdate) (*User, error) {
	if update.Empty() {
		return nil, nil
	}

	if err := r.provider.UpdateUserAttributes(ctx, token, update); err != nil {
		r.metrics.RecordProviderFailure("update_user_attributes")
		return nil, WrapProviderError("update_user_attributes", err)
	}

	principal, err := r.PrincipalFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if principal.User == nil {
		return nil, ErrAccountNotFound
	}

	record := principal.User
	if update.Email != "" {
		record.Email = update.Email
	}
	if update.Phone != "" {
		record.Phone = update.Phone
	}

	return r.users.Update(ctx, record)
}

// ForgotPassword starts the reset flow; returns the provider's masked
// delivery destination.
func (r *Resolver) ForgotPassword(ctx context.Context, email string) (string, error) {
	destination, err := r.provider.ForgotPassword(ctx, email)
	if err != nil {
		r.metrics.RecordProviderFailure("forgot_password")
		return "", WrapProviderError("forgot_password", err)
	}
	return destination, nil
}

// ConfirmForgotPassword finalizes the reset and signs in with the new
// password.
func (r *Resolver) ConfirmForgotPassword(ctx context.Context, input PasswordResetInput) (*LoginResult, error) {
	if err := r.provider.ConfirmForgotPassword(ctx, input); err != nil {
		r.metrics.RecordProviderFailure("confirm_forgot_password")
		return nil, WrapProviderError("confirm_forgot_password", err)
	}
	return r.SignIn(ctx, input.Email, input.NewPassword)
}

// AttributeVerificationCode asks the provider to send a verification code for
// one contact channel of the token's account.
func (r *Resolver) AttributeVerificationCode(ctx context.Context, token, attributeName string) error {
	if err := r.provider.AttributeVerificationCode(ctx, token, attributeName); err != nil {
		r.metrics.RecordProviderFailure("attribute_verification_code")
		return WrapProviderError("attribute_verification_code", err)
	}
	return nil
}

// VerifyAttribute confirms one contact channel with the provider, then marks
// the matching local flag verified.
func (r *Resolver) VerifyAttribute(ctx context.Context, token, code, attributeName string) (*User, error) {
	if err := r.provider.VerifyUserAttribute(ctx, token, code, attributeName); err != nil {
		r.metrics.RecordProviderFailure("verify_user_attribute")
		return nil, WrapProviderError("verify_user_attribute", err)
	}

	principal, err := r.PrincipalFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if principal.User == nil {
		return nil, ErrAccountNotFound
	}

	return r.users.SetConfirmation(ctx, principal.User.ID, attributeName, true)
}

// Logout revokes every session tied to the token.
func (r *Resolver) Logout(ctx context.Context, token string) error {
	if err := r.provider.Logout(ctx, token); err != nil {
		r.metrics.RecordProviderFailure("logout")
		return WrapProviderError("logout", err)
	}
	return nil
}

// LogoutForEmail revokes every session of the named account without holding
// one of its tokens. Agent-only at the route layer.
func (r *Resolver) LogoutForEmail(ctx context.Context, email string) error {
	if err := r.provider.LogoutForUser(ctx, email); err != nil {
		r.metrics.RecordProviderFailure("logout_for_user")
		return WrapProviderError("logout_for_user", err)
	}
	return nil
}

// AdminConfirmUser bypasses code verification: the provider marks the account
// confirmed out-of-band and both local flags flip together, unlike
// self-service confirmation.
func (r *Resolver) AdminConfirmUser(ctx context.Context, email string) (*User, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundAsAccount(err)
	}

	if user.FullyConfirmed() {
		return nil, ErrAlreadyConfirmed
	}

	if err := r.provider.AdminConfirmUser(ctx, email); err != nil {
		r.metrics.RecordProviderFailure("admin_confirm_user")
		return nil, WrapProviderError("admin_confirm_user", err)
	}

	user.ConfirmationEmail = true
	user.ConfirmationPhone = true
	return r.users.Update(ctx, user)
}

// CreateAgent provisions an administrative account: duplicate check, provider
// agent creation, then the local row.
func (r *Resolver) CreateAgent(ctx context.Context, input CreateAgentInput) (*Agent, error) {
	exists, err := r.agents.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}

	subjectID, err := r.provider.CreateAgentUser(ctx, input.Email, input.SuppressNotification)
	if err != nil {
		r.metrics.RecordProviderFailure("create_agent_user")
		return nil, WrapProviderError("create_agent_user", err)
	}

	record := &Agent{
		ID:         input.ID,
		Email:      input.Email,
		Name:       input.Name,
		ProviderID: subjectID,
		Roles:      input.Roles,
	}

	return r.agents.Register(ctx, record)
}

// ListUsers returns one page of regular accounts.
func (r *Resolver) ListUsers(ctx context.Context, q PageQuery) (Collection[*User], error) {
	records, total, err := r.users.FindAndCount(ctx, q)
	if err != nil {
		return Collection[*User]{}, err
	}
	return NewCollection(q, total, records), nil
}

// ListAgents returns one page of administrative accounts.
func (r *Resolver) ListAgents(ctx context.Context, q PageQuery) (Collection[*Agent], error) {
	records, total, err := r.agents.FindAndCount(ctx, q)
	if err != nil {
		return Collection[*Agent]{}, err
	}
	return NewCollection(q, total, records), nil
}

func (r *Resolver) findAccountByEmail(ctx context.Context, email string) (*Principal, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		return NewUserPrincipal(user), nil
	}
	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	agent, err := r.agents.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return NewAgentPrincipal(agent), nil
}

func notFoundAsAccount(err error) error {
	if repository.IsRecordNotFound(err) {
		return ErrAccountNotFound
	}
	return err
}
