package bankgate_test

import (
	"context"
	"testing"

	bankgate "github.com/goliatone/bankgate"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessRepository(t *testing.T) {
	db := setupTestDB(t)
	users := bankgate.NewUsersRepository(db)
	store := bankgate.NewBusinessRepository(db)
	ctx := context.Background()

	owner, err := users.Register(ctx, &bankgate.User{
		Email:   "biz@example.com",
		SubRole: bankgate.SubRoleBusiness,
	})
	require.NoError(t, err)

	t.Run("absent profile is not found", func(t *testing.T) {
		_, err := store.FindByUserID(ctx, owner.ID)
		require.Error(t, err)
		assert.True(t, repository.IsRecordNotFound(err))
	})

	t.Run("create and read back", func(t *testing.T) {
		created, err := store.Create(ctx, &bankgate.BusinessProfile{
			UserID:   owner.ID,
			Name:     "Acme Ltd",
			Position: bankgate.PositionDirector,
			Industry: "logistics",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		found, err := store.FindByUserID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Ltd", found.Name)
		assert.Equal(t, bankgate.PositionDirector, found.Position)
	})

	t.Run("update in place", func(t *testing.T) {
		record, err := store.FindByUserID(ctx, owner.ID)
		require.NoError(t, err)

		record.Name = "Acme Holdings Ltd"
		record.Size = "11-50"

		updated, err := store.Update(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, "Acme Holdings Ltd", updated.Name)
		assert.Equal(t, "11-50", updated.Size)
	})
}
