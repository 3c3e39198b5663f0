package members_models

import (
	"testing"

	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"

	"github.com/stretchr/testify/assert"
)

func Test_NormalizeName_WithEveryAcceptedShape_ProducesCanonicalParts(t *testing.T) {
	cases := []struct {
		title                            string
		name, firstName, lastName        string
		prenom, nom                      string
		expectedName, expectedFirst, expectedLast string
	}{
		{"name only", "Ada Lovelace", "", "", "", "", "Ada Lovelace", "Ada", "Lovelace"},
		{"single word name", "Ada", "", "", "", "", "Ada", "Ada", ""},
		{"first and last", "", "Grace", "Hopper", "", "", "Grace Hopper", "Grace", "Hopper"},
		{"prenom and nom", "", "", "", "Marie", "Curie", "Marie Curie", "Marie", "Curie"},
		{"first and last win over prenom", "", "Alan", "Turing", "Marie", "Curie", "Alan Turing", "Alan", "Turing"},
		{"explicit name kept", "Dr. Hopper", "Grace", "Hopper", "", "", "Dr. Hopper", "Grace", "Hopper"},
		{"only last name", "", "", "Curie", "", "", "Curie", "", "Curie"},
		{"nothing", "", "", "", "", "", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			name, first, last := NormalizeName(tc.name, tc.firstName, tc.lastName, tc.prenom, tc.nom)

			assert.Equal(t, tc.expectedName, name)
			assert.Equal(t, tc.expectedFirst, first)
			assert.Equal(t, tc.expectedLast, last)
		})
	}
}

func Test_CanBeManagedBy_WithCreatorAdminAndStranger_ReturnsExpected(t *testing.T) {
	member := &Member{CreatedBy: "creator"}

	assert.True(t, member.CanBeManagedBy(&users_models.User{ID: "creator", Role: users_enums.UserRoleMember}))
	assert.True(t, member.CanBeManagedBy(&users_models.User{ID: "root", Role: users_enums.UserRoleAdmin}))
	assert.False(t, member.CanBeManagedBy(&users_models.User{ID: "other", Role: users_enums.UserRoleMember}))
	assert.False(t, member.CanBeManagedBy(nil))
}
