package users_models

import "time"

// SecretKey is the persisted JWT signing secret, stored under a fixed id.
type SecretKey struct {
	ID        string
	Secret    string
	CreatedAt time.Time
}
