package authcheck

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PasswordResets is the store facility that mints and redeems single-use
// password reset records.
type PasswordResets interface {
	GetByID(ctx context.Context, id string) (*PasswordReset, error)
	Create(ctx context.Context, record *PasswordReset) (*PasswordReset, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *PasswordReset) (*PasswordReset, error)
	Update(ctx context.Context, record *PasswordReset, criteria ...repository.UpdateCriteria) (*PasswordReset, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *PasswordReset, criteria ...repository.UpdateCriteria) (*PasswordReset, error)
}

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Roles() Roles
	PasswordResets() PasswordResets
}

type passwordResets struct {
	repo repository.Repository[*PasswordReset]
}

var _ PasswordResets = (*passwordResets)(nil)

func NewPasswordResetsRepository(db *bun.DB) PasswordResets {
	handlers := repository.ModelHandlers[*PasswordReset]{
		NewRecord: func() *PasswordReset {
			return &PasswordReset{}
		},
		GetID: func(record *PasswordReset) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *PasswordReset, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
	}
	return &passwordResets{
		repo: repository.NewRepository(db, handlers),
	}
}

func (p *passwordResets) GetByID(ctx context.Context, id string) (*PasswordReset, error) {
	return p.repo.GetByID(ctx, id)
}

func (p *passwordResets) Create(ctx context.Context, record *PasswordReset) (*PasswordReset, error) {
	return p.repo.Create(ctx, record)
}

func (p *passwordResets) CreateTx(ctx context.Context, tx bun.IDB, record *PasswordReset) (*PasswordReset, error) {
	return p.repo.CreateTx(ctx, tx, record)
}

func (p *passwordResets) Update(ctx context.Context, record *PasswordReset, criteria ...repository.UpdateCriteria) (*PasswordReset, error) {
	return p.repo.Update(ctx, record, criteria...)
}

func (p *passwordResets) UpdateTx(ctx context.Context, tx bun.IDB, record *PasswordReset, criteria ...repository.UpdateCriteria) (*PasswordReset, error) {
	return p.repo.UpdateTx(ctx, tx, record, criteria...)
}

type mngr struct {
	db             *bun.DB
	users          Users
	roles          Roles
	passwordResets PasswordResets
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:             db,
		users:          NewUsersRepository(db),
		roles:          NewRolesRepository(db),
		passwordResets: NewPasswordResetsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.roles == nil {
		return errors.New("repository roles should be initialized")
	}

	if m.passwordResets == nil {
		return errors.New("repository passwordResets should be initialized")
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

func (m mngr) Roles() Roles {
	return m.roles
}

func (m mngr) PasswordResets() PasswordResets {
	return m.passwordResets
}
