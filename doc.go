// Package authcheck provides credential authentication primitives: account
// registration, password verification, HS256 bearer-token issuance and
// validation, role-based authorization, and bootstrap seeding.
//
// Storage:
//   - Accounts, roles and password-reset records persist through Bun-backed
//     repositories exposed by a RepositoryManager. The core depends only on
//     narrow store interfaces, so any engine with per-key atomic writes can
//     stand in.
//
// Tokens:
//   - Tokens are stateless bearer capabilities. Validity is purely a function
//     of signature, issuer and clock; nothing is persisted or revocable. The
//     jti claim exists for per-issuance distinctness only.
//
// Authorization:
//   - RoleAuthorizer re-reads role membership from the store on every
//     decision so results always reflect the latest assignments.
package authcheck
