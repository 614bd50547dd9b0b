package authcheck

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type AssignRoleMessage struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (e AssignRoleMessage) Type() string { return "user.assign_role" }

// Validate will run validation rules
func (e AssignRoleMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(
			&e.Username,
			validation.Required,
		),
		validation.Field(
			&e.Role,
			validation.Required,
		),
	)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid role assignment payload").
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

type AssignRoleHandler struct {
	repo   RepositoryManager
	logger Logger
}

// NewAssignRoleHandler creates a handler with sane defaults.
func NewAssignRoleHandler(repo RepositoryManager) *AssignRoleHandler {
	return &AssignRoleHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *AssignRoleHandler) WithLogger(logger Logger) *AssignRoleHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *AssignRoleHandler) Execute(ctx context.Context, event AssignRoleMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during role assignment",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *AssignRoleHandler) execute(ctx context.Context, event AssignRoleMessage) error {
	if err := event.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.Username)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return goerrors.Wrap(err, ErrIdentityNotFound.Category, ErrIdentityNotFound.Message).
					WithTextCode(ErrIdentityNotFound.TextCode).
					WithMetadata(map[string]any{"username": event.Username})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for role assignment")
		}

		// Role existence is ensured before the membership link references it
		role, err := h.repo.Roles().GetOrCreateTx(ctx, tx, event.Role)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ensure role exists")
		}

		if err := h.repo.Users().AssignRoleTx(ctx, tx, user.ID, role.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to assign role")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "role assignment transaction failed")
	}

	return nil
}
