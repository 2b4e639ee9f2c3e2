package bankgate_test

import (
	"testing"

	bankgate "github.com/goliatone/bankgate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPrincipal(t *testing.T) {
	t.Run("absent principal means the guard never ran", func(t *testing.T) {
		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(nil)

		principal, err := bankgate.CurrentPrincipal(ctx)

		require.Error(t, err)
		assert.Nil(t, principal)
		assert.ErrorIs(t, err, bankgate.ErrUnauthenticated)
	})

	t.Run("published principal is returned", func(t *testing.T) {
		want := bankgate.NewUserPrincipal(&bankgate.User{ID: uuid.New()})

		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(want)

		principal, err := bankgate.CurrentPrincipal(ctx)

		require.NoError(t, err)
		assert.Equal(t, want, principal)
	})
}

func TestCurrentToken(t *testing.T) {
	ctx := new(MockContext)
	ctx.On("Locals", bankgate.TokenLocalsKey).Return("raw-token")

	token, err := bankgate.CurrentToken(ctx)

	require.NoError(t, err)
	assert.Equal(t, "raw-token", token)
}

func TestRequireUser(t *testing.T) {
	t.Run("individual blocked from business-only access", func(t *testing.T) {
		principal := bankgate.NewUserPrincipal(&bankgate.User{
			ID:      uuid.New(),
			SubRole: bankgate.SubRoleIndividual,
		})

		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(principal)

		user, err := bankgate.RequireUser(ctx, bankgate.SubRoleBusiness)

		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, bankgate.ErrGuardForbidden)
	})

	t.Run("business sub-role passes", func(t *testing.T) {
		record := &bankgate.User{ID: uuid.New(), SubRole: bankgate.SubRoleBusiness}
		principal := bankgate.NewUserPrincipal(record)

		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(principal)

		user, err := bankgate.RequireUser(ctx, bankgate.SubRoleBusiness)

		require.NoError(t, err)
		assert.Equal(t, record, user)
	})

	t.Run("no role requirement returns any regular account", func(t *testing.T) {
		record := &bankgate.User{ID: uuid.New(), SubRole: bankgate.SubRoleIndividual}
		principal := bankgate.NewUserPrincipal(record)

		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(principal)

		user, err := bankgate.RequireUser(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, record, user)
	})

	t.Run("agent principal is not a user", func(t *testing.T) {
		principal := bankgate.NewAgentPrincipal(&bankgate.Agent{ID: uuid.New()})

		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(principal)

		user, err := bankgate.RequireUser(ctx, "")

		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, bankgate.ErrGuardForbidden)
	})
}

func TestRequireAgent(t *testing.T) {
	t.Run("role grant is set membership", func(t *testing.T) {
		record := &bankgate.Agent{
			ID:    uuid.New(),
			Roles: []bankgate.AgentRole{bankgate.AgentRoleAgent},
		}
		principal := bankgate.NewAgentPrincipal(record)

		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(principal)

		agent, err := bankgate.RequireAgent(ctx, bankgate.AgentRoleAdmin)
		require.Error(t, err)
		assert.Nil(t, agent)
		assert.ErrorIs(t, err, bankgate.ErrGuardForbidden)

		agent, err = bankgate.RequireAgent(ctx, bankgate.AgentRoleAgent)
		require.NoError(t, err)
		assert.Equal(t, record, agent)
	})

	t.Run("admin grant does not require ordering in the set", func(t *testing.T) {
		record := &bankgate.Agent{
			ID:    uuid.New(),
			Roles: []bankgate.AgentRole{bankgate.AgentRoleAgent, bankgate.AgentRoleAdmin},
		}
		principal := bankgate.NewAgentPrincipal(record)

		ctx := new(MockContext)
		ctx.On("Locals", bankgate.PrincipalLocalsKey).Return(principal)

		agent, err := bankgate.RequireAgent(ctx, bankgate.AgentRoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, record, agent)
	})
}
