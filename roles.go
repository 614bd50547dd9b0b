package authcheck

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Decision is the outcome of a role check. Reason is set when Allowed is
// false; decisions are per-request values and are never persisted.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Decision reasons
const (
	ReasonRoleMissing     = "role missing"
	ReasonIdentityUnknown = "identity unknown"
)

// RoleReader is the narrow membership surface the authorizer needs
type RoleReader interface {
	RolesFor(ctx context.Context, username string) ([]string, error)
}

// RoleAuthorizer decides whether an authenticated identity holds a required
// role. Membership is re-read from the store on every decision; there is no
// caching, so assignments take effect immediately.
type RoleAuthorizer struct {
	store  RoleReader
	logger Logger
}

// NewRoleAuthorizer will create a new RoleAuthorizer
func NewRoleAuthorizer(store RoleReader) *RoleAuthorizer {
	return &RoleAuthorizer{
		store:  store,
		logger: defLogger{},
	}
}

func (a *RoleAuthorizer) WithLogger(l Logger) *RoleAuthorizer {
	if l != nil {
		a.logger = l
	}
	return a
}

// Authorize checks requiredRole against the identity's current memberships.
// A missing account denies rather than errors: a token can outlive its
// account, and the holder should not learn whether it still exists.
func (a *RoleAuthorizer) Authorize(ctx context.Context, identity Identity, requiredRole string) (Decision, error) {
	if identity == nil || identity.Username() == "" {
		return Decision{Reason: ReasonIdentityUnknown}, nil
	}

	roles, err := a.store.RolesFor(ctx, identity.Username())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return Decision{Reason: ReasonIdentityUnknown}, nil
		}
		return Decision{}, errors.Wrap(err, errors.CategoryInternal, "failed to read role membership")
	}

	for _, role := range roles {
		if role == requiredRole {
			return Decision{Allowed: true}, nil
		}
	}

	a.logger.Debug("authorization denied", "username", identity.Username(), "required", requiredRole)

	return Decision{Reason: ReasonRoleMissing}, nil
}
