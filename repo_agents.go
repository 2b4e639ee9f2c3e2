package bankgate

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AgentStore is the narrow persistence surface for administrative accounts.
type AgentStore interface {
	FindByEmail(ctx context.Context, email string) (*Agent, error)
	FindByProviderID(ctx context.Context, providerID string) (*Agent, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, record *Agent) (*Agent, error)
	FindAndCount(ctx context.Context, q PageQuery) ([]*Agent, int, error)
}

type agents struct {
	repo repository.Repository[*Agent]
	db   *bun.DB
}

var _ AgentStore = (*agents)(nil)

// NewAgentsRepository wires the agent store on top of bun.
func NewAgentsRepository(db *bun.DB) AgentStore {
	repo := repository.NewRepository[*Agent](db, repository.ModelHandlers[*Agent]{
		NewRecord: func() *Agent { return &Agent{} },
		GetID: func(a *Agent) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Agent, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &agents{repo: repo, db: db}
}

func (a *agents) FindByEmail(ctx context.Context, email string) (*Agent, error) {
	record := &Agent{}
	err := a.db.NewSelect().
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

func (a *agents) FindByProviderID(ctx context.Context, providerID string) (*Agent, error) {
	record := &Agent{}
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

func (a *agents) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := a.db.NewSelect().
		Model((*Agent)(nil)).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *agents) Register(ctx context.Context, record *Agent) (*Agent, error) {
	if len(record.Roles) == 0 {
		record.Roles = []AgentRole{AgentRoleAgent}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Enabled = true
	return a.repo.CreateTx(ctx, a.db, record)
}

func (a *agents) FindAndCount(ctx context.Context, q PageQuery) ([]*Agent, int, error) {
	n := q.Normalize()
	var records []*Agent
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
