package bankgate

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BusinessStore persists the one-to-one business profile of a business
// sub-role user.
type BusinessStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*BusinessProfile, error)
	Create(ctx context.Context, record *BusinessProfile) (*BusinessProfile, error)
	Update(ctx context.Context, record *BusinessProfile) (*BusinessProfile, error)
}

type businessProfiles struct {
	repo repository.Repository[*BusinessProfile]
	db   *bun.DB
}

var _ BusinessStore = (*businessProfiles)(nil)

// NewBusinessRepository wires the business profile store on top of bun.
func NewBusinessRepository(db *bun.DB) BusinessStore {
	repo := repository.NewRepository[*BusinessProfile](db, repository.ModelHandlers[*BusinessProfile]{
		NewRecord: func() *BusinessProfile { return &BusinessProfile{} },
		GetID: func(b *BusinessProfile) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *BusinessProfile, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
	})

	return &businessProfiles{repo: repo, db: db}
}

func (a *businessProfiles) FindByUserID(ctx context.Context, userID uuid.UUID) (*BusinessProfile, error) {
	record := &BusinessProfile{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"user_id": userID.String()})
		}
		return nil, err
	}
	return record, nil
}

func (a *businessProfiles) Create(ctx context.Context, record *BusinessProfile) (*BusinessProfile, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.repo.CreateTx(ctx, a.db, record)
}

func (a *businessProfiles) Update(ctx context.Context, record *BusinessProfile) (*BusinessProfile, error) {
	return a.repo.UpdateTx(ctx, a.db, record, repository.UpdateByID(record.ID.String()))
}
