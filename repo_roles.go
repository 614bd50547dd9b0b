package authcheck

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles is the role store surface. GetOrCreate is the idempotent ensure the
// Seeder and the assign-role command lean on; roles are never deleted.
type Roles interface {
	GetByName(ctx context.Context, name string) (*Role, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Role, error)

	GetOrCreate(ctx context.Context, name string) (*Role, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, name string) (*Role, error)
}

type roles struct {
	repo repository.Repository[*Role]
	db   *bun.DB
}

var _ Roles = (*roles)(nil)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &roles{
		repo: repo,
		db:   db,
	}
}

func (a *roles) GetByName(ctx context.Context, name string) (*Role, error) {
	return a.GetByNameTx(ctx, a.db, name)
}

func (a *roles) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Role, error) {
	record := &Role{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"name": name,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *roles) GetOrCreate(ctx context.Context, name string) (*Role, error) {
	return a.GetOrCreateTx(ctx, a.db, name)
}

func (a *roles) GetOrCreateTx(ctx context.Context, tx bun.IDB, name string) (*Role, error) {
	record, err := a.GetByNameTx(ctx, tx, name)
	if err == nil {
		return record, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	record = &Role{
		ID:   uuid.New(),
		Name: name,
	}

	created, err := a.repo.CreateTx(ctx, tx, record)
	if err != nil {
		// Lost a create race: the row exists now, read it back
		if existing, lookupErr := a.GetByNameTx(ctx, tx, name); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}

	return created, nil
}
