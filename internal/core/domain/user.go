package domain

import "time"

// User is the persisted identity record. Email doubles as the username.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	BirthDate    time.Time
	PasswordHash string
	Roles        RoleSet
}

func (u *User) Username() string { return u.Email }

// HasRole reports whether the user was granted r.
func (u *User) HasRole(r Role) bool { return u.Roles.Has(r) }

// RoleAssignment is one row of the user/role join: a user holding N roles
// shows up as N rows that repeat the credential columns.
type RoleAssignment struct {
	UserID         int64
	Username       string
	CredentialHash string
	RoleID         int64
	RoleTag        string
}

// Principal is the credential-bearing identity folded from role assignment
// rows. It is built per call and never stored.
type Principal struct {
	ID             int64
	Username       string
	CredentialHash string
	Roles          RoleSet
}

// PublicProfile is the caller-facing projection of a User.
type PublicProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate time.Time `json:"birth_date,omitempty"`
	Roles     []string  `json:"roles"`
}

// Profile projects u onto its public shape.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		BirthDate: u.BirthDate,
		Roles:     u.Roles.Strings(),
	}
}
