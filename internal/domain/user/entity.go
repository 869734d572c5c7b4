package user

// User represents a user entity in the system.
type User struct {
	ID           string `json:"id"`          // ID is generated by the store on insert
	Name         string `json:"name"`        // Name is the full name of the user
	Address      string `json:"address"`     // Address is the postal address of the user
	Email        string `json:"email"`       // Email is the unique lookup key
	PhoneNumber  string `json:"phoneNumber"` // PhoneNumber is the contact number
	PasswordHash string `json:"-"`           // PasswordHash is the bcrypt hash, never serialized
}
