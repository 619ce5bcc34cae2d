// Package models defines the records persisted by the server and the
// request payloads that create or modify them.
package models

import "time"

// User is an account. Hashes never leave the server.
type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	VaultPasskeyHash string     `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
}

// HasVaultPasskey reports whether the user set a vault passkey.
func (u *User) HasVaultPasskey() bool {
	return u.VaultPasskeyHash != ""
}

// PublicUser is the externally visible view of a User.
type PublicUser struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	HasVaultPasskey bool       `json:"hasVaultPasskey"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		HasVaultPasskey: u.HasVaultPasskey(),
		CreatedAt:       u.CreatedAt,
		LastLogin:       u.LastLogin,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"min=2,max=50"`
	Email    string `json:"email" validate:"email,max=254"`
	Password string `json:"password" validate:"min=6,max=1024"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasskeyRequest struct {
	Passkey string `json:"passkey"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  *PublicUser `json:"user"`
}
