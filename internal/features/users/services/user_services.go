package users_services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	users_dto "taskflow/internal/features/users/dto"
	users_enums "taskflow/internal/features/users/enums"
	users_interfaces "taskflow/internal/features/users/interfaces"
	users_models "taskflow/internal/features/users/models"
	users_repositories "taskflow/internal/features/users/repositories"
	"taskflow/internal/util/apperrors"
)

// compared against when the email is unknown, so both failure paths pay
// for one bcrypt comparison
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

type UserService struct {
	userRepository      *users_repositories.UserRepository
	secretKeyRepository *users_repositories.SecretKeyRepository
	// nil until audit_logs.SetupDependencies runs
	auditLogWriter users_interfaces.AuditLogWriter
}

func (s *UserService) SetAuditLogWriter(writer users_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *UserService) writeAuditLog(message string, userID *string, projectID *string) {
	if s.auditLogWriter != nil {
		s.auditLogWriter.WriteAuditLog(message, userID, projectID)
	}
}

func (s *UserService) SignUp(ctx context.Context, request *users_dto.SignUpRequestDTO) (*users_models.User, error) {
	existingUser, err := s.userRepository.GetUserByEmail(ctx, request.Email)
	if err != nil {
		return nil, apperrors.StoreFailure("check existing user", err)
	}

	if existingUser != nil {
		return nil, apperrors.Validation("email", "user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashedPasswordStr := string(hashedPassword)

	user := &users_models.User{
		ID:                   uuid.New().String(),
		Email:                request.Email,
		FirstName:            request.FirstName,
		LastName:             request.LastName,
		HashedPassword:       &hashedPasswordStr,
		PasswordCreationTime: time.Now().UTC(),
		Role:                 users_enums.UserRoleMember,
		Status:               users_enums.UserStatusActive,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, apperrors.StoreFailure("create user", err)
	}

	s.writeAuditLog(
		fmt.Sprintf("User registered with email: %s", user.Email),
		&user.ID,
		nil,
	)

	return user, nil
}

// SignIn fails with the same error for an unknown email, a wrong password
// and an account without a password.
func (s *UserService) SignIn(
	ctx context.Context,
	request *users_dto.SignInRequestDTO,
) (*users_dto.SignInResponseDTO, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, request.Email)
	if err != nil {
		return nil, apperrors.StoreFailure("get user", err)
	}

	if user == nil || !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(request.Password))
		return nil, apperrors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(request.Password)); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	if !user.IsActiveUser() {
		return nil, apperrors.PermissionDenied("user account is deactivated")
	}

	response, err := s.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.writeAuditLog(
		fmt.Sprintf("User signed in with email: %s", user.Email),
		&user.ID,
		nil,
	)

	return response, nil
}

func (s *UserService) GetUserFromToken(ctx context.Context, token string) (*users_models.User, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, errors.New("invalid token")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid token claims")
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActiveUser() {
		return nil, errors.New("user account is deactivated")
	}

	passwordCreationTimeUnix, ok := claims["passwordCreationTime"].(float64)
	if !ok {
		return nil, errors.New("invalid token claims: missing password creation time")
	}

	tokenPasswordTime := time.Unix(int64(passwordCreationTimeUnix), 0)
	if !tokenPasswordTime.Equal(user.PasswordCreationTime.Truncate(time.Second)) {
		return nil, errors.New("password has been changed, please sign in again")
	}

	return user, nil
}

func (s *UserService) GenerateAccessToken(
	ctx context.Context,
	user *users_models.User,
) (*users_dto.SignInResponseDTO, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	tenYearsExpiration := time.Now().UTC().Add(time.Hour * 24 * 365 * 10)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                  user.ID,
		"exp":                  tenYearsExpiration.Unix(),
		"iat":                  time.Now().UTC().Unix(),
		"role":                 string(user.Role),
		"passwordCreationTime": user.PasswordCreationTime.Unix(),
	})

	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &users_dto.SignInResponseDTO{
		UserID: user.ID,
		Email:  user.Email,
		Token:  tokenString,
	}, nil
}

func (s *UserService) CreateInitialAdmin(ctx context.Context) error {
	return s.userRepository.CreateInitialAdmin(ctx)
}

func (s *UserService) IsRootAdminHasPassword(ctx context.Context) (bool, error) {
	admin, err := s.userRepository.GetUserByEmail(ctx, "admin")
	if err != nil {
		return false, fmt.Errorf("failed to get admin user: %w", err)
	}

	if admin == nil {
		return false, errors.New("admin user does not exist")
	}

	return admin.HasPassword(), nil
}

func (s *UserService) SetRootAdminPassword(ctx context.Context, password string) error {
	admin, err := s.userRepository.GetUserByEmail(ctx, "admin")
	if err != nil {
		return apperrors.StoreFailure("get admin user", err)
	}

	if admin == nil {
		return apperrors.NotFound("user", "admin")
	}

	if admin.HasPassword() {
		return apperrors.Validation("password", "admin password is already set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepository.UpdateUserPassword(ctx, admin.ID, string(hashedPassword)); err != nil {
		return apperrors.StoreFailure("set admin password", err)
	}

	s.writeAuditLog("Admin password set", &admin.ID, nil)

	return nil
}

func (s *UserService) ChangeUserPasswordByEmail(ctx context.Context, email string, newPassword string) error {
	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		return apperrors.StoreFailure("get user", err)
	}

	if user == nil {
		return apperrors.NotFound("user", email)
	}

	return s.setPassword(ctx, user.ID, newPassword)
}

func (s *UserService) ChangeUserPassword(ctx context.Context, userID string, newPassword string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.HasPassword() {
		return apperrors.Validation("password", "user has no password set")
	}

	return s.setPassword(ctx, userID, newPassword)
}

func (s *UserService) setPassword(ctx context.Context, userID string, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepository.UpdateUserPassword(ctx, userID, string(hashedPassword)); err != nil {
		return apperrors.StoreFailure("update password", err)
	}

	s.writeAuditLog("Password changed", &userID, nil)

	return nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*users_models.User, error) {
	return s.userRepository.GetUserByID(ctx, userID)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*users_models.User, error) {
	return s.userRepository.GetUserByEmail(ctx, email)
}

func (s *UserService) GetCurrentUserProfile(user *users_models.User) *users_dto.UserProfileResponseDTO {
	return &users_dto.UserProfileResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsActive:  user.IsActiveUser(),
		CreatedAt: user.CreatedAt,
	}
}
