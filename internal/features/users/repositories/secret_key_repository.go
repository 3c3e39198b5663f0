package users_repositories

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskflow/internal/config"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/storage"
)

const (
	secretKeysCollection = "secret_keys"
	jwtSecretKeyID       = "jwt"
)

// SecretKeyRepository resolves the JWT signing secret: JWT_SECRET when set,
// otherwise a random secret generated once and persisted in the store.
type SecretKeyRepository struct {
	mu     sync.Mutex
	secret string
}

func (r *SecretKeyRepository) GetSecretKey(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.secret != "" {
		return r.secret, nil
	}

	if secret := config.GetEnv().JwtSecret; secret != "" {
		r.secret = secret
		return r.secret, nil
	}

	secretKey, err := r.loadOrCreate(ctx)
	if err != nil {
		return "", err
	}

	r.secret = secretKey.Secret
	return r.secret, nil
}

func (r *SecretKeyRepository) loadOrCreate(ctx context.Context) (*users_models.SecretKey, error) {
	store := storage.GetStore()

	doc, err := store.Get(ctx, secretKeysCollection, jwtSecretKeyID)
	if err == nil {
		return &users_models.SecretKey{
			ID:        doc.ID(),
			Secret:    doc.String("secret"),
			CreatedAt: doc.Time("createdAt"),
		}, nil
	}

	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load secret key: %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate secret key: %w", err)
	}

	secretKey := &users_models.SecretKey{
		ID:        jwtSecretKeyID,
		Secret:    hex.EncodeToString(buf),
		CreatedAt: time.Now().UTC(),
	}

	_, err = store.Insert(ctx, secretKeysCollection, storage.Document{
		"id":        secretKey.ID,
		"secret":    secretKey.Secret,
		"createdAt": secretKey.CreatedAt,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		// another instance stored one first
		return r.loadOrCreate(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store secret key: %w", err)
	}

	return secretKey, nil
}
