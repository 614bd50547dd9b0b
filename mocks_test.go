package authcheck_test

import (
	"context"
	"database/sql"

	"github.com/authcheck/go-authcheck"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockLogger implements authcheck.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockIdentity implements authcheck.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

// MockAuthenticator implements authcheck.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) Verify(token string) (authcheck.Identity, error) {
	args := m.Called(token)
	if identity, ok := args.Get(0).(authcheck.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdentityProvider implements authcheck.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, username, password string) (authcheck.Identity, error) {
	args := m.Called(ctx, username, password)
	if identity, ok := args.Get(0).(authcheck.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (authcheck.Identity, error) {
	args := m.Called(ctx, username)
	if identity, ok := args.Get(0).(authcheck.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUsers implements authcheck.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*authcheck.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*authcheck.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*authcheck.User, error) {
	args := m.Called(ctx, tx, username)
	if user, ok := args.Get(0).(*authcheck.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, record *authcheck.User) (*authcheck.User, error) {
	args := m.Called(ctx, record)
	if user, ok := args.Get(0).(*authcheck.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *authcheck.User) (*authcheck.User, error) {
	args := m.Called(ctx, tx, record)
	if user, ok := args.Get(0).(*authcheck.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) DeleteByUsername(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUsers) DeleteByUsernameTx(ctx context.Context, tx bun.IDB, username string) error {
	args := m.Called(ctx, tx, username)
	return args.Error(0)
}

func (m *MockUsers) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUsers) CountTx(ctx context.Context, tx bun.IDB) (int, error) {
	args := m.Called(ctx, tx)
	return args.Int(0), args.Error(1)
}

func (m *MockUsers) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *MockUsers) AssignRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, tx, userID, roleID)
	return args.Error(0)
}

func (m *MockUsers) RolesFor(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) RolesForTx(ctx context.Context, tx bun.IDB, username string) ([]string, error) {
	args := m.Called(ctx, tx, username)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRoles implements authcheck.Roles
type MockRoles struct {
	mock.Mock
}

func (m *MockRoles) GetByName(ctx context.Context, name string) (*authcheck.Role, error) {
	args := m.Called(ctx, name)
	if role, ok := args.Get(0).(*authcheck.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*authcheck.Role, error) {
	args := m.Called(ctx, tx, name)
	if role, ok := args.Get(0).(*authcheck.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) GetOrCreate(ctx context.Context, name string) (*authcheck.Role, error) {
	args := m.Called(ctx, name)
	if role, ok := args.Get(0).(*authcheck.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoles) GetOrCreateTx(ctx context.Context, tx bun.IDB, name string) (*authcheck.Role, error) {
	args := m.Called(ctx, tx, name)
	if role, ok := args.Get(0).(*authcheck.Role); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPasswordResets implements authcheck.PasswordResets
type MockPasswordResets struct {
	mock.Mock
}

func (m *MockPasswordResets) GetByID(ctx context.Context, id string) (*authcheck.PasswordReset, error) {
	args := m.Called(ctx, id)
	if record, ok := args.Get(0).(*authcheck.PasswordReset); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResets) Create(ctx context.Context, record *authcheck.PasswordReset) (*authcheck.PasswordReset, error) {
	args := m.Called(ctx, record)
	if created, ok := args.Get(0).(*authcheck.PasswordReset); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResets) CreateTx(ctx context.Context, tx bun.IDB, record *authcheck.PasswordReset) (*authcheck.PasswordReset, error) {
	args := m.Called(ctx, tx, record)
	if created, ok := args.Get(0).(*authcheck.PasswordReset); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResets) Update(ctx context.Context, record *authcheck.PasswordReset, criteria ...repository.UpdateCriteria) (*authcheck.PasswordReset, error) {
	callArgs := []any{ctx, record}
	for _, c := range criteria {
		callArgs = append(callArgs, c)
	}
	args := m.Called(callArgs...)
	if updated, ok := args.Get(0).(*authcheck.PasswordReset); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResets) UpdateTx(ctx context.Context, tx bun.IDB, record *authcheck.PasswordReset, criteria ...repository.UpdateCriteria) (*authcheck.PasswordReset, error) {
	callArgs := []any{ctx, tx, record}
	for _, c := range criteria {
		callArgs = append(callArgs, c)
	}
	args := m.Called(callArgs...)
	if updated, ok := args.Get(0).(*authcheck.PasswordReset); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRepositoryManager implements authcheck.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() authcheck.Users {
	args := m.Called()
	return args.Get(0).(authcheck.Users)
}

func (m *MockRepositoryManager) Roles() authcheck.Roles {
	args := m.Called()
	return args.Get(0).(authcheck.Roles)
}

func (m *MockRepositoryManager) PasswordResets() authcheck.PasswordResets {
	args := m.Called()
	return args.Get(0).(authcheck.PasswordResets)
}
