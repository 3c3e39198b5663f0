package members_repositories

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetMemberByID_WithLegacyPrenomNomDocument_ReturnsCanonicalName(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New().String()

	_, err := storage.GetStore().Insert(ctx, membersCollection, storage.Document{
		"id":        memberID,
		"prenom":    "Marie",
		"nom":       "Curie",
		"email":     "marie-" + memberID[:8] + "@test.com",
		"telephone": "+33 1 23 45 67 89",
		"role":      "moderateur",
		"password":  "plaintext-secret",
		"createdBy": "legacy-user",
		"createdAt": map[string]any{"seconds": int64(1700000000), "nanoseconds": int64(0)},
	})
	require.NoError(t, err)

	repository := &MemberRepository{}
	member, err := repository.GetMemberByID(ctx, memberID)
	require.NoError(t, err)
	require.NotNil(t, member)

	assert.Equal(t, "Marie Curie", member.Name)
	assert.Equal(t, "Marie", member.FirstName)
	assert.Equal(t, "Curie", member.LastName)
	assert.Equal(t, "+33 1 23 45 67 89", member.Phone)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), member.CreatedAt)
	assert.False(t, member.HasPassword())
}

func Test_GetMemberByID_WithNameOnlyDocument_SplitsName(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New().String()

	_, err := storage.GetStore().Insert(ctx, membersCollection, storage.Document{
		"id":   memberID,
		"name": "Ada Lovelace",
	})
	require.NoError(t, err)

	member, err := (&MemberRepository{}).GetMemberByID(ctx, memberID)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", member.Name)
	assert.Equal(t, "Ada", member.FirstName)
	assert.Equal(t, "Lovelace", member.LastName)
}

func Test_GetMemberByID_WithoutAnyName_ReturnsEmptyName(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New().String()

	_, err := storage.GetStore().Insert(ctx, membersCollection, storage.Document{"id": memberID, "email": "x@test.com"})
	require.NoError(t, err)

	member, err := (&MemberRepository{}).GetMemberByID(ctx, memberID)
	require.NoError(t, err)
	require.NotNil(t, member)

	assert.Empty(t, member.Name)
}

func Test_GetMemberByID_WhenMissing_ReturnsNil(t *testing.T) {
	member, err := (&MemberRepository{}).GetMemberByID(context.Background(), uuid.New().String())

	require.NoError(t, err)
	assert.Nil(t, member)
}

func Test_UpdatePassword_RemovesLegacyPlaintextPassword(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New().String()

	_, err := storage.GetStore().Insert(ctx, membersCollection, storage.Document{
		"id":       memberID,
		"name":     "Legacy Member",
		"password": "plaintext-secret",
	})
	require.NoError(t, err)

	require.NoError(t, (&MemberRepository{}).UpdatePassword(ctx, memberID, "$2a$10$hash"))

	doc, err := storage.GetStore().Get(ctx, membersCollection, memberID)
	require.NoError(t, err)
	_, hasPlaintext := doc["password"]
	assert.False(t, hasPlaintext)
	assert.Equal(t, "$2a$10$hash", doc.String("hashedPassword"))
	assert.True(t, doc.Bool("hasSetPassword"))
}
