package bankgate

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserStore is the narrow persistence surface the resolver and controllers
// consume for regular accounts.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByProviderID(ctx context.Context, providerID string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, record *User) (*User, error)
	Update(ctx context.Context, record *User) (*User, error)
	SetConfirmation(ctx context.Context, id uuid.UUID, attributeName string, value bool) (*User, error)
	FindAndCount(ctx context.Context, q PageQuery) ([]*User, int, error)
}

// Users extends UserStore with transactional variants.
type Users interface {
	UserStore

	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
}

type users struct {
	repo repository.Repository[*User]
	db   *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository wires the regular account store on top of bun.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{repo: repo, db: db}
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}
	return record, nil
}

func (a *users) FindByProviderID(ctx context.Context, providerID string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.provider_id = ?", providerID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"provider_id": providerID})
		}
		return nil, err
	}
	return record, nil
}

func (a *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *users) Register(ctx context.Context, record *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, record)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	if record.SubRole == "" {
		record.SubRole = SubRoleIndividual
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.repo.CreateTx(ctx, tx, record)
}

func (a *users) Update(ctx context.Context, record *User) (*User, error) {
	return a.UpdateTx(ctx, a.db, record)
}

// UpdateTx persists the record after applying the contact-invalidation hook
// against the currently persisted row. Every mutation path funnels through
// here so the confirmation invariant cannot drift between call sites.
func (a *users) UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	existing := &User{}
	err := tx.NewSelect().
		Model(existing).
		Where("?TableAlias.id = ?", record.ID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": record.ID.String()})
		}
		return nil, err
	}

	applyContactInvalidation(existing, record)

	return a.repo.UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String()))
}

func (a *users) SetConfirmation(ctx context.Context, id uuid.UUID, attributeName string, value bool) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	setAttributeConfirmation(record, attributeName, value)

	return a.repo.UpdateTx(ctx, a.db, record, repository.UpdateByID(id.String()))
}

func (a *users) FindAndCount(ctx context.Context, q PageQuery) ([]*User, int, error) {
	n := q.Normalize()
	var records []*User
	total, err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Limit(n.PerPage).
		Offset(n.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
