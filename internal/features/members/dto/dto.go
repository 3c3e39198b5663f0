package members_dto

import (
	members_models "taskflow/internal/features/members/models"
)

// CreateMemberRequestDTO accepts name, firstName/lastName or prenom/nom.
type CreateMemberRequestDTO struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Prenom    string `json:"prenom"`
	Nom       string `json:"nom"`
	Email     string `json:"email"     binding:"required,email"`
	Phone     string `json:"phone"`
	Telephone string `json:"telephone"`
	Role      string `json:"role"`
	Password  string `json:"password"  binding:"omitempty,min=6"`
}

// UpdateMemberRequestDTO merges non-nil fields.
type UpdateMemberRequestDTO struct {
	Name      *string `json:"name"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Prenom    *string `json:"prenom"`
	Nom       *string `json:"nom"`
	Email     *string `json:"email"     binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
}

type SetPasswordRequestDTO struct {
	Password string `json:"password" binding:"required,min=6"`
}

type MemberSignInRequestDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ListMembersResponseDTO struct {
	Members []*members_models.Member `json:"members"`
}
