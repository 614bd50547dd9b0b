package authcheck

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type ChangePasswordMessage struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (e ChangePasswordMessage) Type() string { return "user.change_password" }

// Validate will run validation rules
func (e ChangePasswordMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(
			&e.Username,
			validation.Required,
		),
		validation.Field(
			&e.Password,
			validation.Required,
		),
	)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid change password payload").
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

// ChangePasswordHandler mints a single-use reset record through the store
// facility and redeems it in the same transaction. The caller never proves
// knowledge of the current password: this mirrors the upstream behavior and
// is a known security gap, kept deliberately rather than silently fixed.
type ChangePasswordHandler struct {
	repo   RepositoryManager
	logger Logger
}

// NewChangePasswordHandler creates a handler with sane defaults.
func NewChangePasswordHandler(repo RepositoryManager) *ChangePasswordHandler {
	return &ChangePasswordHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ChangePasswordHandler) WithLogger(logger Logger) *ChangePasswordHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ChangePasswordHandler) Execute(ctx context.Context, event ChangePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password change",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ChangePasswordHandler) execute(ctx context.Context, event ChangePasswordMessage) error {
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
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password change")
		}

		// Mint the single-use reset record
		reset := &PasswordReset{
			UserID: &user.ID,
			Email:  user.Email,
			Status: ResetRequestedStatus,
		}

		created, err := h.repo.PasswordResets().CreateTx(ctx, tx, reset)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create password reset record")
		}

		passwordHash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		// Redeem immediately: update the hash and retire the reset record
		if err := h.repo.Users().ResetPasswordTx(ctx, tx, user.ID, passwordHash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password in database")
		}

		// Column-scoped so the partial record never zeroes user_id
		r := MarkPasswordAsReseted(created.ID)
		if _, err := h.repo.PasswordResets().UpdateTx(ctx, tx, r, repository.UpdateColumns("status", "reseted_at")); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password reset status")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to change password")
	}

	return nil
}
