package authcheck_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/authcheck/go-authcheck"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestAssignRoleHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("links the user to an ensured role", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}
		roles := &MockRoles{}

		handler := authcheck.NewAssignRoleHandler(repo).WithLogger(testLogger{})

		userID := uuid.New()
		roleID := uuid.New()

		repo.On("Users").Return(users).Twice()
		repo.On("Roles").Return(roles).Once()

		users.On("GetByUsernameTx", mock.Anything, mock.Anything, "testuser").
			Return(&authcheck.User{ID: userID, Username: "testuser"}, nil).Once()

		roles.On("GetOrCreateTx", mock.Anything, mock.Anything, authcheck.RoleOperator).
			Return(&authcheck.Role{ID: roleID, Name: authcheck.RoleOperator}, nil).Once()

		users.On("AssignRoleTx", mock.Anything, mock.Anything, userID, roleID).
			Return(nil).Once()

		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Return(nil).
			Run(func(args mock.Arguments) {
				fn := args.Get(2).(func(context.Context, bun.Tx) error)
				var tx bun.Tx
				require.NoError(t, fn(args.Get(0).(context.Context), tx))
			}).Once()

		err := handler.Execute(ctx, authcheck.AssignRoleMessage{
			Username: "testuser",
			Role:     authcheck.RoleOperator,
		})

		require.NoError(t, err)

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
		roles.AssertExpectations(t)
	})

	t.Run("unknown username surfaces as not found", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}

		handler := authcheck.NewAssignRoleHandler(repo).WithLogger(testLogger{})

		repo.On("Users").Return(users).Once()
		users.On("GetByUsernameTx", mock.Anything, mock.Anything, "ghost").
			Return(nil, repository.NewRecordNotFound()).Once()

		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Run(func(args mock.Arguments) {
				fn := args.Get(2).(func(context.Context, bun.Tx) error)
				var tx bun.Tx
				require.Error(t, fn(args.Get(0).(context.Context), tx))
			}).
			Return(authcheck.ErrIdentityNotFound).Once()

		err := handler.Execute(ctx, authcheck.AssignRoleMessage{
			Username: "ghost",
			Role:     authcheck.RoleOperator,
		})

		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryNotFound, richErr.Category)

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		handler := authcheck.NewAssignRoleHandler(repo)

		err := handler.Execute(ctx, authcheck.AssignRoleMessage{Username: "testuser"})
		require.Error(t, err)

		err = handler.Execute(ctx, authcheck.AssignRoleMessage{Role: authcheck.RoleAdmin})
		require.Error(t, err)

		repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	})
}
