package members_models

import (
	"strings"
	"time"

	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
)

type Member struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	HashedPassword *string   `json:"-"`
	HasSetPassword bool      `json:"hasSetPassword"`
	Role           string    `json:"role"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (m *Member) HasPassword() bool {
	return m.HashedPassword != nil && *m.HashedPassword != ""
}

func (m *Member) CanBeManagedBy(user *users_models.User) bool {
	if user == nil {
		return false
	}

	return user.Role == users_enums.UserRoleAdmin || m.CreatedBy == user.ID
}

// JoinName builds the display name from its parts.
func JoinName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// SplitName splits a display name at its first space.
func SplitName(name string) (string, string) {
	name = strings.TrimSpace(name)

	firstName, lastName, _ := strings.Cut(name, " ")
	return firstName, strings.TrimSpace(lastName)
}

// NormalizeName resolves the accepted name shapes into the canonical
// name, firstName and lastName. firstName/lastName win over prenom/nom,
// and a lone name is split into its parts.
func NormalizeName(name, firstName, lastName, prenom, nom string) (string, string, string) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		firstName = strings.TrimSpace(prenom)
		lastName = strings.TrimSpace(nom)
	}

	name = strings.TrimSpace(name)

	switch {
	case name == "":
		name = JoinName(firstName, lastName)
	case firstName == "" && lastName == "":
		firstName, lastName = SplitName(name)
	}

	return name, firstName, lastName
}
