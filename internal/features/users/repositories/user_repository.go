package users_repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/storage"
	"taskflow/internal/util/apperrors"

	"github.com/google/uuid"
)

const usersCollection = "users"

type UserRepository struct{}

func (r *UserRepository) CreateUser(ctx context.Context, user *users_models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	_, err := storage.GetStore().Insert(ctx, usersCollection, userToDocument(user))
	return err
}

// GetUserByEmail returns nil without error when no user has the email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*users_models.User, error) {
	docs, err := storage.GetStore().Find(ctx, usersCollection, storage.Query{
		Predicates: []storage.Predicate{storage.Where("email", storage.OpEqual, normalizeEmail(email))},
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, nil
	}

	return userFromDocument(docs[0]), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*users_models.User, error) {
	doc, err := storage.GetStore().Get(ctx, usersCollection, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, err
	}

	return userFromDocument(doc), nil
}

func (r *UserRepository) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	return storage.GetStore().Update(ctx, usersCollection, userID, storage.Patch{
		Set: map[string]any{
			"hashedPassword":       hashedPassword,
			"passwordCreationTime": time.Now().UTC(),
		},
	})
}

func (r *UserRepository) UpdateUserStatus(ctx context.Context, userID string, status users_enums.UserStatus) error {
	return storage.GetStore().Update(ctx, usersCollection, userID, storage.Patch{
		Set: map[string]any{"status": status},
	})
}

func (r *UserRepository) CreateInitialAdmin(ctx context.Context) error {
	admin, err := r.GetUserByEmail(ctx, "admin")
	if err != nil {
		return err
	}

	if admin != nil {
		return nil
	}

	return r.CreateUser(ctx, &users_models.User{
		ID:                   uuid.New().String(),
		Email:                "admin",
		PasswordCreationTime: time.Now().UTC(),
		Role:                 users_enums.UserRoleAdmin,
		Status:               users_enums.UserStatusActive,
		CreatedAt:            time.Now().UTC(),
	})
}

func (r *UserRepository) RenameUserEmailForTests(ctx context.Context, oldEmail, newEmail string) error {
	user, err := r.GetUserByEmail(ctx, oldEmail)
	if err != nil || user == nil {
		return err
	}

	return storage.GetStore().Update(ctx, usersCollection, user.ID, storage.Patch{
		Set: map[string]any{"email": normalizeEmail(newEmail)},
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userToDocument(user *users_models.User) storage.Document {
	return storage.Document{
		"id":                   user.ID,
		"email":                normalizeEmail(user.Email),
		"firstName":            user.FirstName,
		"lastName":             user.LastName,
		"hashedPassword":       user.HashedPassword,
		"passwordCreationTime": user.PasswordCreationTime,
		"role":                 user.Role,
		"status":               user.Status,
		"createdAt":            user.CreatedAt,
	}
}

func userFromDocument(doc storage.Document) *users_models.User {
	return &users_models.User{
		ID:                   doc.ID(),
		Email:                doc.String("email"),
		FirstName:            doc.String("firstName"),
		LastName:             doc.String("lastName"),
		HashedPassword:       doc.OptionalString("hashedPassword"),
		PasswordCreationTime: doc.Time("passwordCreationTime"),
		Role:                 users_enums.UserRole(doc.String("role")),
		Status:               users_enums.UserStatus(doc.String("status")),
		CreatedAt:            doc.Time("createdAt"),
	}
}
