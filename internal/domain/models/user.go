package models

import "time"

// User is a shop account. Orders and expenses are scoped to its ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	ShopName     string    `json:"shopName"`
	Logo         string    `json:"logo,omitempty"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdate holds the shop profile fields a user may edit. Nil fields are
// left untouched.
type ProfileUpdate struct {
	FullName *string
	ShopName *string
	Logo     *string
	Address  *string
	Phone    *string
}

// Empty reports whether the update would change nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.ShopName == nil && u.Logo == nil && u.Address == nil && u.Phone == nil
}
