package types

// User is the single active session. Email doubles as the identity key.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
