package user

import (
	"time"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
)

// createRequest is the payload for creating a user.
type createRequest struct {
	Username    string `json:"username" validate:"required,min=1,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// updateRequest is the payload for updating a user record.
type updateRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
	Active      *bool   `json:"is_active"`
}

// meRequest is the payload for the self-service endpoint. Only a subset of
// fields may be edited there.
type meRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

// setPasswordRequest is the payload for the superuser set-password endpoint.
type setPasswordRequest struct {
	Password        string `json:"password" validate:"required"`
	OverrideWarning bool   `json:"override_warning"`
}

// groupBrief is the embedded group summary in a user response.
type groupBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// response is the serialized user record. The password hash is never
// included.
type response struct {
	ID          uint64       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	IsStaff     bool         `json:"is_staff"`
	IsSuperuser bool         `json:"is_superuser"`
	Active      bool         `json:"is_active"`
	Groups      []groupBrief `json:"groups"`
	CreatedAt   time.Time    `json:"created_at"`
}

// serialize converts a user record and its groups to the response shape.
func serialize(u *models.User, groups []models.Group) response {
	out := response{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		Active:      u.Active,
		Groups:      []groupBrief{},
		CreatedAt:   u.CreatedAt,
	}

	for _, g := range groups {
		out.Groups = append(out.Groups, groupBrief{ID: g.ID, Name: g.Name})
	}

	return out
}
