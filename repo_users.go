package authcheck

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ResetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"is_email_verified" = TRUE,
	"password_hash" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

// Users is the account store surface the core depends on. Create/update and
// delete against a given username rely on the engine's per-key atomicity;
// no in-process locking happens above this interface.
type Users interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)

	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)

	DeleteByUsername(ctx context.Context, username string) error
	DeleteByUsernameTx(ctx context.Context, tx bun.IDB, username string) error

	// Count reports the total number of live accounts. The Seeder keys its
	// "store is empty" decision off this exact number.
	Count(ctx context.Context) (int, error)
	CountTx(ctx context.Context, tx bun.IDB) (int, error)

	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error

	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
	AssignRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error

	RolesFor(ctx context.Context, username string) ([]string, error)
	RolesForTx(ctx context.Context, tx bun.IDB, username string) ([]string, error)
}

type users struct {
	repo repository.Repository[*User]
	db   *bun.DB
}

var (
	_ Users      = (*users)(nil)
	_ UserStore  = (*users)(nil)
	_ RoleReader = (*users)(nil)
)

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
			return "username"
		},
	})

	return &users{
		repo: repo,
		db:   db,
	}
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Relation("Roles").
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)
	return a.repo.CreateTx(ctx, tx, record)
}

func (a *users) DeleteByUsername(ctx context.Context, username string) error {
	return a.DeleteByUsernameTx(ctx, a.db, username)
}

func (a *users) DeleteByUsernameTx(ctx context.Context, tx bun.IDB, username string) error {
	res, err := tx.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.username = ?", username).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"username": username,
			})
	}

	return nil
}

func (a *users) Count(ctx context.Context) (int, error) {
	return a.CountTx(ctx, a.db)
}

func (a *users) CountTx(ctx context.Context, tx bun.IDB) (int, error) {
	return tx.NewSelect().
		Model((*User)(nil)).
		Count(ctx)
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.repo.RawTx(ctx, tx, ResetUserPasswordSQL, passwordHash, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *users) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	return a.AssignRoleTx(ctx, a.db, userID, roleID)
}

func (a *users) AssignRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	link := &UserRole{
		UserID: userID,
		RoleID: roleID,
	}

	// Re-assigning an already held role is a no-op
	_, err := tx.NewInsert().
		Model(link).
		On("CONFLICT DO NOTHING").
		Exec(ctx)

	return err
}

func (a *users) RolesFor(ctx context.Context, username string) ([]string, error) {
	return a.RolesForTx(ctx, a.db, username)
}

func (a *users) RolesForTx(ctx context.Context, tx bun.IDB, username string) ([]string, error) {
	user, err := a.GetByUsernameTx(ctx, tx, username)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		if role != nil {
			names = append(names, role.Name)
		}
	}

	return names, nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
