package service

import "github.com/maheshrc27/postdeck/internal/models"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanRead is false only for guests.
func (a Actor) CanRead() bool {
	switch a.Role {
	case models.RoleAdmin, models.RoleUser, models.RoleDemo:
		return true
	}
	return false
}

// CanWrite is reserved to admins and regular users. Demo accounts are read-only.
func (a Actor) CanWrite() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleUser
}

func (a Actor) owns(userID int64) bool {
	return a.IsAdmin() || a.UserID == userID
}
