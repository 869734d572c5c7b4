package user

// GetProfileRequest represents the request payload for reading a profile.
type GetProfileRequest struct {
	ID string
}

// GetProfileResponse represents a user profile without credentials.
type GetProfileResponse struct {
	ID          string
	Name        string
	Address     string
	Email       string
	PhoneNumber string
}
