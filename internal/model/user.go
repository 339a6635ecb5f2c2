package model

import "time"

// User represents a registered account in the database.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the authenticated caller resolved from a bearer token.
// Handlers scope every store query by Identity.ID.
type Identity struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// CredentialsRequest is the body of both register and login requests.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// MeResponse merges the user record with its (possibly missing) profile.
type MeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       *int      `json:"age"`
	Weight    *float64  `json:"weight"`
	Height    *float64  `json:"height"`
	BloodType *string   `json:"bloodType"`
	CreatedAt time.Time `json:"createdAt"`
}
