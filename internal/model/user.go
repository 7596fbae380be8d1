package model

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Age          *int64    `db:"age"`
	AvatarPath   *string   `db:"avatar_path"` // Object storage key, nil when no avatar is set
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) HasAvatar() bool {
	return u.AvatarPath != nil && *u.AvatarPath != ""
}

// MarshalJSON controls the public shape of a user. The password hash, token
// set and avatar storage key never leave the server.
func (u *User) MarshalJSON() ([]byte, error) {
	type publicUser struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Age       *int64    `json:"age,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	return json.Marshal(publicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
}
