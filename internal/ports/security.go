package ports

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenGenerator mints opaque bearer credentials and app secrets from an
// alphanumeric plus underscore/dash alphabet. Tokens are matched exactly
// against the store; nothing is encoded inside them.
type TokenGenerator interface {
	NewToken(length int) (string, error)
}
