package users_testing

import (
	"context"
	"fmt"
	"strings"
	"time"

	users_dto "taskflow/internal/features/users/dto"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	users_repositories "taskflow/internal/features/users/repositories"
	users_services "taskflow/internal/features/users/services"

	"github.com/google/uuid"
)

func CreateTestUser(role users_enums.UserRole) *users_dto.SignInResponseDTO {
	user := CreateTestUserModel(role)

	response, err := users_services.GetUserService().GenerateAccessToken(context.Background(), user)
	if err != nil {
		panic(err)
	}

	return response
}

// CreateTestUserModel stores a user and returns it, for tests that call
// services directly with an actor.
func CreateTestUserModel(role users_enums.UserRole) *users_models.User {
	userID := uuid.New().String()
	email := fmt.Sprintf("%s-%s@test.com", strings.ToLower(string(role)), userID[:8])

	hashedPassword := "$2a$10$test"
	user := &users_models.User{
		ID:                   userID,
		Email:                email,
		FirstName:            "Test",
		LastName:             strings.ToLower(string(role)),
		HashedPassword:       &hashedPassword,
		PasswordCreationTime: time.Now().UTC(),
		CreatedAt:            time.Now().UTC(),
		Role:                 role,
		Status:               users_enums.UserStatusActive,
	}

	userRepository := &users_repositories.UserRepository{}
	if err := userRepository.CreateUser(context.Background(), user); err != nil {
		panic(err)
	}

	return user
}

func GetTestUser(userID string) *users_models.User {
	user, err := users_services.GetUserService().GetUserByID(context.Background(), userID)
	if err != nil {
		panic(err)
	}

	return user
}

func ReacreateInitAdminAndGetAccess() *users_dto.SignInResponseDTO {
	RecreateInitialAdmin()

	userRepository := &users_repositories.UserRepository{}
	user, err := userRepository.GetUserByEmail(context.Background(), "admin")
	if err != nil {
		panic(err)
	}

	response, err := users_services.GetUserService().GenerateAccessToken(context.Background(), user)
	if err != nil {
		panic(err)
	}

	return response
}

func RecreateInitialAdmin() {
	userRepository := &users_repositories.UserRepository{}
	err := userRepository.RenameUserEmailForTests(context.Background(), "admin", "admin-"+uuid.New().String())
	if err != nil {
		panic(err)
	}

	if err := users_services.GetUserService().CreateInitialAdmin(context.Background()); err != nil {
		panic(err)
	}
}
