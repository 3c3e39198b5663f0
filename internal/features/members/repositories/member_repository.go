package members_repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	members_models "taskflow/internal/features/members/models"
	"taskflow/internal/storage"
	"taskflow/internal/util/apperrors"
	"taskflow/internal/util/logger"

	"github.com/google/uuid"
)

const membersCollection = "team_members"

// searchUpperBound closes a prefix range query on a text field.
const searchUpperBound = "\uf8ff"

type MemberRepository struct{}

func (r *MemberRepository) CreateMember(ctx context.Context, member *members_models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	_, err := storage.GetStore().Insert(ctx, membersCollection, memberToDocument(member))
	return err
}

// GetMemberByID returns nil without error when the member does not exist.
func (r *MemberRepository) GetMemberByID(ctx context.Context, memberID string) (*members_models.Member, error) {
	if memberID == "" {
		return nil, nil
	}

	doc, err := storage.GetStore().Get(ctx, membersCollection, memberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return memberFromDocument(doc), nil
}

// GetMemberByEmail returns nil without error when no member has the email.
func (r *MemberRepository) GetMemberByEmail(ctx context.Context, email string) (*members_models.Member, error) {
	docs, err := storage.GetStore().Find(ctx, membersCollection, storage.Query{
		Predicates: []storage.Predicate{storage.Where("email", storage.OpEqual, NormalizeEmail(email))},
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, nil
	}

	return memberFromDocument(docs[0]), nil
}

func (r *MemberRepository) UpdateMember(
	ctx context.Context,
	memberID string,
	fields map[string]any,
	unset []string,
) error {
	set := make(map[string]any, len(fields)+1)
	for field, value := range fields {
		set[field] = value
	}
	set["updatedAt"] = time.Now().UTC()

	err := storage.GetStore().Update(ctx, membersCollection, memberID, storage.Patch{Set: set, Unset: unset})
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("member", memberID)
	}

	return err
}

// UpdatePassword stores the hash and drops any legacy plaintext password.
func (r *MemberRepository) UpdatePassword(ctx context.Context, memberID string, hashedPassword string) error {
	return r.UpdateMember(ctx, memberID,
		map[string]any{
			"hashedPassword": hashedPassword,
			"hasSetPassword": true,
		},
		[]string{"password"},
	)
}

func (r *MemberRepository) DeleteMember(ctx context.Context, memberID string) error {
	err := storage.GetStore().Delete(ctx, membersCollection, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("member", memberID)
	}

	return err
}

func (r *MemberRepository) GetMembersCreatedBy(ctx context.Context, userID string) ([]*members_models.Member, error) {
	return r.find(ctx, storage.Query{
		Predicates: []storage.Predicate{storage.Where("createdBy", storage.OpEqual, userID)},
		OrderBy:    "createdAt",
		Descending: true,
	})
}

// SearchByName returns members whose name starts with prefix, ordered by
// name. An empty createdBy searches every member.
func (r *MemberRepository) SearchByName(
	ctx context.Context,
	prefix string,
	createdBy string,
) ([]*members_models.Member, error) {
	predicates := []storage.Predicate{
		storage.Where("name", storage.OpGreaterOrEqual, prefix),
		storage.Where("name", storage.OpLessOrEqual, prefix+searchUpperBound),
	}
	if createdBy != "" {
		predicates = append(predicates, storage.Where("createdBy", storage.OpEqual, createdBy))
	}

	return r.find(ctx, storage.Query{Predicates: predicates, OrderBy: "name"})
}

func (r *MemberRepository) find(ctx context.Context, query storage.Query) ([]*members_models.Member, error) {
	docs, err := storage.GetStore().Find(ctx, membersCollection, query)
	if err != nil {
		return nil, err
	}

	members := make([]*members_models.Member, 0, len(docs))
	for _, doc := range docs {
		members = append(members, memberFromDocument(doc))
	}

	return members, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// memberToDocument writes the canonical shape: name, firstName and
// lastName, never prenom/nom.
func memberToDocument(member *members_models.Member) storage.Document {
	return storage.Document{
		"id":             member.ID,
		"name":           member.Name,
		"firstName":      member.FirstName,
		"lastName":       member.LastName,
		"email":          NormalizeEmail(member.Email),
		"phone":          member.Phone,
		"hashedPassword": member.HashedPassword,
		"hasSetPassword": member.HasSetPassword,
		"role":           member.Role,
		"createdBy":      member.CreatedBy,
		"createdAt":      member.CreatedAt,
		"updatedAt":      member.UpdatedAt,
	}
}

// memberFromDocument accepts every stored name shape. A document without
// any name field is logged and read with an empty name.
func memberFromDocument(doc storage.Document) *members_models.Member {
	name, firstName, lastName := members_models.NormalizeName(
		doc.String("name"),
		doc.String("firstName"),
		doc.String("lastName"),
		doc.String("prenom"),
		doc.String("nom"),
	)

	if name == "" {
		logger.GetLogger().Warn("member document has no recognisable name", "memberId", doc.ID())
	}

	phone := doc.String("phone")
	if phone == "" {
		phone = doc.String("telephone")
	}

	return &members_models.Member{
		ID:             doc.ID(),
		Name:           name,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          doc.String("email"),
		Phone:          phone,
		HashedPassword: doc.OptionalString("hashedPassword"),
		HasSetPassword: doc.Bool("hasSetPassword"),
		Role:           doc.String("role"),
		CreatedBy:      doc.String("createdBy"),
		CreatedAt:      doc.Time("createdAt"),
		UpdatedAt:      doc.Time("updatedAt"),
	}
}
