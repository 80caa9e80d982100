package auth

import "github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"

// Actor is the authenticated identity making the current request.
// A nil Actor (or nil Actor.User) represents an unauthenticated request.
type Actor struct {
	// User is the authenticated user record.
	User *models.User
	// TokenID is set when the actor authenticated with an API token
	// instead of a session. Zero for session authenticated actors.
	TokenID uint64
}

// NewActor wraps a user record as an actor.
func NewActor(user *models.User) *Actor {
	if user == nil {
		return nil
	}

	return &Actor{User: user}
}

// IsSuperuser reports whether the actor is an authenticated superuser.
func (a *Actor) IsSuperuser() bool {
	return a != nil && a.User != nil && a.User.IsSuperuser
}
