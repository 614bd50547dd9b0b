package authcheck

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Default admin account created on a completely empty store
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "Admin1!"
	DefaultAdminEmail    = "admin@example.com"
)

// Seeder ensures the baseline roles and the default admin account exist
// before the service accepts traffic. Safe to rerun: roles are ensured
// idempotently, and the admin account is only created when the store holds
// zero accounts in total. A store containing any account at all, admin or
// not, skips default-admin creation entirely.
type Seeder struct {
	repo   RepositoryManager
	logger Logger
}

// NewSeeder creates a seeder with sane defaults.
func NewSeeder(repo RepositoryManager) *Seeder {
	return &Seeder{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the seeder.
func (s *Seeder) WithLogger(logger Logger) *Seeder {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Seed runs the bootstrap routine. The empty-store check and the seeded
// insert share a transaction so a concurrent first registration cannot race
// the default admin into a duplicate.
func (s *Seeder) Seed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		adminRole, err := s.repo.Roles().GetOrCreateTx(ctx, tx, RoleAdmin)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ensure Admin role")
		}

		if _, err := s.repo.Roles().GetOrCreateTx(ctx, tx, RoleOperator); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ensure Operator role")
		}

		total, err := s.repo.Users().CountTx(ctx, tx)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count accounts")
		}

		if total > 0 {
			return nil
		}

		hash, err := HashPassword(DefaultAdminPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash default admin password")
		}

		admin := &User{
			Username:       DefaultAdminUsername,
			Email:          DefaultAdminEmail,
			PasswordHash:   hash,
			EmailValidated: true,
		}

		if admin, err = s.repo.Users().CreateTx(ctx, tx, admin); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create default admin account")
		}

		if err := s.repo.Users().AssignRoleTx(ctx, tx, admin.ID, adminRole.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to assign Admin role to default admin")
		}

		s.logger.Warn("seeded default admin account %q with the built-in password, change it", DefaultAdminUsername)

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "bootstrap seeding failed")
	}

	return nil
}
