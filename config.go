package authcheck

// Fallback configuration values carried over from the original deployment.
// They are deliberately weak; SimpleConfig logs a warning whenever one of
// them ends up in use.
const (
	DefaultSigningKey      = "your_secret_key_here"
	DefaultIssuer          = "authcheck"
	DefaultTokenExpiration = 1 // hours
)

// SimpleConfig is an explicit configuration struct for token issuance and
// validation. Both values are read-only after construction, so a single
// instance is safe to share across goroutines.
type SimpleConfig struct {
	SigningKey      string
	Issuer          string
	TokenExpiration int
}

var _ Config = (*SimpleConfig)(nil)

// NewConfig applies fallbacks for missing values and surfaces them through
// the logger so a weak deployment never goes unnoticed.
func NewConfig(signingKey, issuer string, logger Logger) *SimpleConfig {
	if logger == nil {
		logger = defLogger{}
	}

	if signingKey == "" {
		signingKey = DefaultSigningKey
		logger.Warn("no signing key configured, falling back to the built-in default: tokens are forgeable")
	}

	if issuer == "" {
		issuer = DefaultIssuer
		logger.Warn("no issuer configured, falling back to %q", DefaultIssuer)
	}

	return &SimpleConfig{
		SigningKey:      signingKey,
		Issuer:          issuer,
		TokenExpiration: DefaultTokenExpiration,
	}
}

func (c *SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *SimpleConfig) GetIssuer() string {
	return c.Issuer
}

func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}
