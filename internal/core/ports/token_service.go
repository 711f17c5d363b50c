package ports

// TokenClaims is the identity payload embedded in an issued token.
type TokenClaims struct {
	UserID string
	Email  string
}

// TokenService issues and verifies signed, time-limited identity tokens.
type TokenService interface {
	Issue(userID, email string) (string, error)
	// Verify returns the embedded claims, or an error for malformed,
	// tampered or expired tokens. It never panics on bad input.
	Verify(token string) (*TokenClaims, error)
}
