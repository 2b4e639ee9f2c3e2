package bankgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
)

// EnsureAdminAgentMessage requests that the configured administrative agent
// exists. Dispatched once at startup; safe to dispatch again.
type EnsureAdminAgentMessage struct {
	Email string `json:"email"`
}

func (e EnsureAdminAgentMessage) Type() string { return "agent.ensure_admin" }

// EnsureAdminAgentHandler provisions the bootstrap admin agent: a no-op when
// the row already exists, otherwise a provider agent creation with the invite
// notification suppressed, then the local row with roles {admin, agent}.
type EnsureAdminAgentHandler struct {
	Agents   AgentStore
	Resolver *Resolver
	Logger   Logger
}

func (h *EnsureAdminAgentHandler) Execute(ctx context.Context, event EnsureAdminAgentMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during admin bootstrap",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *EnsureAdminAgentHandler) execute(ctx context.Context, event EnsureAdminAgentMessage) error {
	if event.Email == "" {
		return goerrors.New("admin bootstrap email is required", goerrors.CategoryBadInput)
	}

	logger := h.Logger
	if logger == nil {
		logger = defLogger{}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	_, err := h.Agents.FindByEmail(ctx, event.Email)
	if err == nil {
		logger.Debug("admin agent already present", "email", event.Email)
		return nil
	}
	if !repository.IsRecordNotFound(err) {
		return err
	}

	input := CreateAgentInput{
		Email:                event.Email,
		Roles:                []AgentRole{AgentRoleAdmin, AgentRoleAgent},
		SuppressNotification: true,
	}

	// Deterministic id keyed by email keeps repeated bootstraps from racing
	// into duplicate rows across instances.
	if id, err := hashid.NewUUID(event.Email); err == nil {
		input.ID = id
	}

	if _, err := h.Resolver.CreateAgent(ctx, input); err != nil {
		return err
	}

	logger.Info("admin agent created", "email", event.Email)
	return nil
}
