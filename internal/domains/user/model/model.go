package model

import (
	"motel/permissions"
	"motel/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldRole      = "role"
	FieldActive    = "active"
	FieldLastLogin = "last_login"
)

type User struct {
	ID        string  `db:"id"`
	Username  string  `db:"username"`
	Email     string  `db:"email"`
	Password  string  `db:"password"`
	FullName  *string `db:"full_name"`
	Phone     *string `db:"phone"`
	Role      string  `db:"role"`
	Active    bool    `db:"active"`
	LastLogin *string `db:"last_login"`
	model.Metadata
}

// RoleValue returns the typed role of the user record.
func (u *User) RoleValue() permissions.Role {
	return permissions.Role(u.Role)
}
