package users_models

import (
	"strings"
	"time"

	users_enums "taskflow/internal/features/users/enums"
)

type User struct {
	ID                   string                 `json:"id"`
	Email                string                 `json:"email"`
	FirstName            string                 `json:"firstName"`
	LastName             string                 `json:"lastName"`
	HashedPassword       *string                `json:"-"`
	PasswordCreationTime time.Time              `json:"-"`
	Role                 users_enums.UserRole   `json:"role"`
	Status               users_enums.UserStatus `json:"status"`
	CreatedAt            time.Time              `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == users_enums.UserRoleAdmin
}

func (u *User) IsActiveUser() bool {
	return u.Status == users_enums.UserStatusActive
}

func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
