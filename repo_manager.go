package bankgate

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all account stores plus transaction plumbing.
type RepositoryManager interface {
	Users() Users
	Agents() AgentStore
	BusinessProfiles() BusinessStore
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

type mngr struct {
	db       *bun.DB
	users    Users
	agents   AgentStore
	business BusinessStore
}

// NewRepositoryManager builds all stores over a shared bun handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db),
		agents:   NewAgentsRepository(db),
		business: NewBusinessRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.agents == nil {
		return errors.New("repository agents should be initialized")
	}

	if m.business == nil {
		return errors.New("repository businessProfiles should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Agents() AgentStore {
	return m.agents
}

func (m mngr) BusinessProfiles() BusinessStore {
	return m.business
}
