package authcheck

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type DeleteUserMessage struct {
	Username string `json:"username"`
	// ActingUsername is the identity performing the deletion; deleting your
	// own account is always rejected.
	ActingUsername string `json:"acting_username"`
}

func (e DeleteUserMessage) Type() string { return "user.delete" }

// Validate will run validation rules
func (e DeleteUserMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(
			&e.Username,
			validation.Required,
		),
	)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid deletion payload").
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

type DeleteUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

// NewDeleteUserHandler creates a handler with sane defaults.
func NewDeleteUserHandler(repo RepositoryManager) *DeleteUserHandler {
	return &DeleteUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *DeleteUserHandler) WithLogger(logger Logger) *DeleteUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *DeleteUserHandler) Execute(ctx context.Context, event DeleteUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user deletion",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *DeleteUserHandler) execute(ctx context.Context, event DeleteUserMessage) error {
	if err := event.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.Username); err != nil {
			if repository.IsRecordNotFound(err) {
				return goerrors.Wrap(err, ErrIdentityNotFound.Category, ErrIdentityNotFound.Message).
					WithTextCode(ErrIdentityNotFound.TextCode).
					WithMetadata(map[string]any{"username": event.Username})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for deletion")
		}

		// The target exists; only now does self deletion come into play
		if event.ActingUsername != "" && event.ActingUsername == event.Username {
			return ErrSelfDeletion
		}

		if err := h.repo.Users().DeleteByUsernameTx(ctx, tx, event.Username); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user deletion transaction failed")
	}

	h.logger.Info("user deleted", "username", event.Username, "acting", event.ActingUsername)

	return nil
}
