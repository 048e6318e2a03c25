package entity

import "time"

// User es un usuario del sistema. PasswordHash es bcrypt.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	ClientIDs    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor construye la identidad operativa del usuario.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role, ClientIDs: u.ClientIDs}
}
