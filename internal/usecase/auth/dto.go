package auth

// SignupRequest represents the request payload for creating an account.
// Email and password are free-form; only the bcrypt input limit applies.
type SignupRequest struct {
	Name            string
	Address         string
	Email           string
	PhoneNumber     string
	Password        string `validate:"max=72"`
	ConfirmPassword string
}

// SigninRequest represents the request payload for verifying credentials.
type SigninRequest struct {
	Email    string
	Password string
}

// TokenResponse carries the session token issued on success.
type TokenResponse struct {
	UserID string
	Token  string
}
