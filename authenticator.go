package authcheck

import (
	"context"
	"reflect"
)

// Auther implements Authenticator on top of an IdentityProvider and a
// TokenService. Instances are read-only after construction and safe for
// unbounded parallel use.
type Auther struct {
	provider        IdentityProvider
	signingKey      []byte
	tokenExpiration int
	issuer          string
	logger          Logger
	tokenService    TokenService
	tokenValidator  TokenValidator
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Keep the TokenService logger in sync
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		logger,
	)
	return s
}

// WithTokenValidator sets a custom token validator for presented tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credential pair and returns a signed bearer token.
// Verification failures surface as ErrMismatchedHashAndPassword regardless
// of whether the username exists.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrIdentityNotFound
	}

	return s.tokenService.Generate(identity)
}

// Verify validates a presented token and returns the authenticated identity
// it carries. No store access happens here; verification is stateless.
func (s *Auther) Verify(raw string) (Identity, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Error("Verify token validation failed", "error", err)
		// Custom validators may surface raw parser errors; normalize those
		if IsMalformedError(err) {
			return nil, ErrTokenMalformed
		}
		return nil, err
	}

	return authIdentity{
		id:       claims.UserID(),
		username: claims.Subject(),
	}, nil
}

var _ Authenticator = (*Auther)(nil)
