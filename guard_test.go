package bankgate_test

import (
	"context"
	"testing"

	bankgate "github.com/goliatone/bankgate"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPrincipalResolver struct {
	mock.Mock
}

func (m *mockPrincipalResolver) PrincipalFromToken(ctx context.Context, token string) (*bankgate.Principal, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*bankgate.Principal)
	return res, args.Error(1)
}

type mockScreener struct {
	mock.Mock
}

func (m *mockScreener) Screen(tokenString string) error {
	args := m.Called(tokenString)
	return args.Error(0)
}

func noopNext(c router.Context) error {
	return c.Next()
}

func errorBodyWithTextCode(code string) any {
	return mock.MatchedBy(func(v any) bool {
		payload, ok := v.(map[string]any)
		if !ok {
			return false
		}
		body, ok := payload["error"].(map[string]any)
		return ok && body["text_code"] == code
	})
}

func expectRejection(ctx *MockContext, status int, textCode string) {
	ctx.On("OriginalURL").Return("/protected")
	ctx.On("JSON", status, errorBodyWithTextCode(textCode)).Return(nil)
}

func TestAccessGuard(t *testing.T) {
	t.Run("empty accepted set admits everyone untouched", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)
		guard := bankgate.NewAccessGuard(resolver)

		ctx := new(MockContext)
		handler := guard.RequireAccountTypes()(noopNext)

		err := handler(ctx)

		require.NoError(t, err)
		assert.True(t, ctx.NextCalled)
		resolver.AssertNotCalled(t, "PrincipalFromToken", mock.Anything, mock.Anything)
	})

	t.Run("missing bearer token renders 401", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)
		guard := bankgate.NewAccessGuard(resolver)

		ctx := new(MockContext)
		ctx.On("GetString", router.HeaderAuthorization, "").Return("")
		expectRejection(ctx, router.StatusUnauthorized, bankgate.TextCodeUnauthenticated)

		handler := guard.RequireAccountTypes(bankgate.AccountTypeRegular)(noopNext)
		err := handler(ctx)

		require.NoError(t, err)
		assert.False(t, ctx.NextCalled)
		ctx.AssertExpectations(t)
	})

	t.Run("screener rejection renders 401 before the provider", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)
		screener := new(mockScreener)
		guard := bankgate.NewAccessGuard(resolver).WithScreener(screener)

		ctx := new(MockContext)
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer expired-token")
		expectRejection(ctx, router.StatusUnauthorized, bankgate.TextCodeUnauthenticated)
		screener.On("Screen", "expired-token").Return(assert.AnError)

		handler := guard.RequireAccountTypes(bankgate.AccountTypeRegular)(noopNext)
		err := handler(ctx)

		require.NoError(t, err)
		assert.False(t, ctx.NextCalled)
		resolver.AssertNotCalled(t, "PrincipalFromToken", mock.Anything, mock.Anything)
		ctx.AssertExpectations(t)
	})

	t.Run("unresolvable token renders 401", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)
		guard := bankgate.NewAccessGuard(resolver)

		ctx := new(MockContext)
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer bad-token")
		ctx.On("Context").Return(context.Background())
		expectRejection(ctx, router.StatusUnauthorized, bankgate.TextCodeUnauthenticated)
		resolver.On("PrincipalFromToken", mock.Anything, "bad-token").
			Return(nil, bankgate.ErrUnauthenticated)

		handler := guard.RequireAccountTypes(bankgate.AccountTypeRegular)(noopNext)
		err := handler(ctx)

		require.NoError(t, err)
		assert.False(t, ctx.NextCalled)
		ctx.AssertExpectations(t)
	})

	t.Run("wrong account type renders 403", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)
		guard := bankgate.NewAccessGuard(resolver)

		principal := bankgate.NewUserPrincipal(&bankgate.User{ID: uuid.New()})

		ctx := new(MockContext)
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer user-token")
		ctx.On("Context").Return(context.Background())
		expectRejection(ctx, router.StatusForbidden, bankgate.TextCodeGuardForbidden)
		resolver.On("PrincipalFromToken", mock.Anything, "user-token").Return(principal, nil)

		handler := guard.RequireAccountTypes(bankgate.AccountTypeAgent)(noopNext)
		err := handler(ctx)

		require.NoError(t, err)
		assert.False(t, ctx.NextCalled)
		ctx.AssertExpectations(t)
	})

	t.Run("injected error handler owns rejection rendering", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)

		var rendered error
		guard := bankgate.NewAccessGuard(resolver).
			WithErrorHandler(func(c router.Context, err error) error {
				rendered = err
				return nil
			})

		ctx := new(MockContext)
		ctx.On("GetString", router.HeaderAuthorization, "").Return("")

		handler := guard.RequireAccountTypes(bankgate.AccountTypeRegular)(noopNext)
		err := handler(ctx)

		require.NoError(t, err)
		assert.ErrorIs(t, rendered, bankgate.ErrUnauthenticated)
		ctx.AssertNotCalled(t, "JSON", mock.Anything, mock.Anything)
	})

	t.Run("accepted principal is published and admitted", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)
		guard := bankgate.NewAccessGuard(resolver)

		principal := bankgate.NewUserPrincipal(&bankgate.User{ID: uuid.New(), Email: "user@example.com"})

		ctx := new(MockContext)
		ctx.On("GetString", router.HeaderAuthorization, "").Return("Bearer user-token")
		ctx.On("Context").Return(context.Background())
		ctx.On("Locals", bankgate.TokenLocalsKey, "user-token").Return(nil)
		ctx.On("Locals", bankgate.PrincipalLocalsKey, principal).Return(nil)
		ctx.On("SetContext", mock.Anything).Return()
		resolver.On("PrincipalFromToken", mock.Anything, "user-token").Return(principal, nil)

		handler := guard.RequireAccountTypes(bankgate.AccountTypeRegular, bankgate.AccountTypeAgent)(noopNext)
		err := handler(ctx)

		require.NoError(t, err)
		assert.True(t, ctx.NextCalled)
		ctx.AssertCalled(t, "Locals", bankgate.TokenLocalsKey, "user-token")
		ctx.AssertCalled(t, "Locals", bankgate.PrincipalLocalsKey, principal)
	})

	t.Run("raw token without scheme is accepted as-is", func(t *testing.T) {
		resolver := new(mockPrincipalResolver)
		guard := bankgate.NewAccessGuard(resolver)

		principal := bankgate.NewAgentPrincipal(&bankgate.Agent{ID: uuid.New()})

		ctx := new(MockContext)
		ctx.On("GetString", router.HeaderAuthorization, "").Return("naked-token")
		ctx.On("Context").Return(context.Background())
		ctx.On("Locals", mock.Anything, mock.Anything).Return(nil)
		ctx.On("SetContext", mock.Anything).Return()
		resolver.On("PrincipalFromToken", mock.Anything, "naked-token").Return(principal, nil)

		handler := guard.RequireAccountTypes(bankgate.AccountTypeAgent)(noopNext)
		err := handler(ctx)

		require.NoError(t, err)
		assert.True(t, ctx.NextCalled)
	})
}
