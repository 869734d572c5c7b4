package auth

import "context"

// Usecase defines the interface for account creation and credential checks.
type Usecase interface {
	Signup(ctx context.Context, in SignupRequest) (*TokenResponse, error)
	Signin(ctx context.Context, in SigninRequest) (*TokenResponse, error)
}

// TokenIssuer signs session tokens bound to a user ID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
