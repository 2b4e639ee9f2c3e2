package bankgate

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
)

// AgentController serves the back office: account listings, force
// confirmation, remote sign-out, and agent provisioning.
type AgentController struct {
	resolver     *Resolver
	logger       Logger
	errorHandler ErrorHandler
}

func NewAgentController(resolver *Resolver) *AgentController {
	return &AgentController{
		resolver:     resolver,
		logger:       defLogger{},
		errorHandler: NewJSONErrorHandler(nil),
	}
}

func (a *AgentController) WithLogger(logger Logger) *AgentController {
	if logger != nil {
		a.logger = logger
	}
	return a
}

func (a *AgentController) WithErrorHandler(handler ErrorHandler) *AgentController {
	if handler != nil {
		a.errorHandler = handler
	}
	return a
}

// RegisterRoutes mounts the back office. Every route requires an agent
// principal; agent creation additionally requires the admin grant.
func (a *AgentController) RegisterRoutes(app RouteRegistrar, guard *AccessGuard) {
	agent := guard.RequireAccountTypes(AccountTypeAgent)

	app.Get("/admin/users", wrapHandler(a.ListUsers, a.errorHandler), agent)
	app.Get("/admin/agents", wrapHandler(a.ListAgents, a.errorHandler), agent)
	app.Post("/admin/users/confirm", wrapHandler(a.ConfirmUser, a.errorHandler), agent)
	app.Post("/admin/users/sign-out", wrapHandler(a.SignOutUser, a.errorHandler), agent)
	app.Post("/admin/agents", wrapHandler(a.CreateAgent, a.errorHandler), agent)
}

// ListUsers returns one page of regular accounts.
func (a *AgentController) ListUsers(ctx router.Context) error {
	if _, err := RequireAgent(ctx, ""); err != nil {
		return err
	}

	q := pageQueryFromRequest(ctx)
	page, err := a.resolver.ListUsers(ctx.Context(), q)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, page)
}

// ListAgents returns one page of administrative accounts.
func (a *AgentController) ListAgents(ctx router.Context) error {
	if _, err := RequireAgent(ctx, ""); err != nil {
		return err
	}

	q := pageQueryFromRequest(ctx)
	page, err := a.resolver.ListAgents(ctx.Context(), q)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, page)
}

// ConfirmUser force-confirms a regular account without a verification code.
func (a *AgentController) ConfirmUser(ctx router.Context) error {
	if _, err := RequireAgent(ctx, ""); err != nil {
		return err
	}

	payload := new(EmailRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := a.resolver.AdminConfirmUser(ctx.Context(), payload.Email)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, user)
}

// SignOutUser revokes every session of the named account.
func (a *AgentController) SignOutUser(ctx router.Context) error {
	if _, err := RequireAgent(ctx, ""); err != nil {
		return err
	}

	payload := new(EmailRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	if err := a.resolver.LogoutForEmail(ctx.Context(), payload.Email); err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"signed_out": true,
	})
}

// CreateAgentRequest provisions a new back-office account.
type CreateAgentRequest struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Roles []AgentRole `json:"roles"`
}

func (r CreateAgentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Roles, validation.By(validAgentRoles)),
	)
}

func validAgentRoles(value any) error {
	roles, _ := value.([]AgentRole)
	for _, role := range roles {
		switch role {
		case AgentRoleAdmin, AgentRoleAgent:
		default:
			return fmt.Errorf("unknown agent role %q", role)
		}
	}
	return nil
}

// CreateAgent provisions an agent. Admin grant only.
func (a *AgentController) CreateAgent(ctx router.Context) error {
	if _, err := RequireAgent(ctx, AgentRoleAdmin); err != nil {
		return err
	}

	payload := new(CreateAgentRequest)
	if err := ctx.Bind(payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	agent, err := a.resolver.CreateAgent(ctx.Context(), CreateAgentInput{
		Email: payload.Email,
		Name:  payload.Name,
		Roles: payload.Roles,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusCreated, agent)
}

func pageQueryFromRequest(ctx router.Context) PageQuery {
	return PageQuery{
		Page:    ctx.QueryInt("page", 1),
		PerPage: ctx.QueryInt("per_page", 10),
	}
}
