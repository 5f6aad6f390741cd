package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAccessGroup(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  AccessGroup
	}{
		{"plain role", "admin", AccessGroup{Role: "admin"}},
		{"collection scoped", "curator@nccp", AccessGroup{Role: "curator", Collection: "nccp"}},
		{"mixed case", "Reviewer@SecInj", AccessGroup{Role: "reviewer", Collection: "secinj"}},
		{"surrounding space", "  editor ", AccessGroup{Role: "editor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAccessGroup(tt.label))
		})
	}
}

func TestParseAccessGroups_dropsEmptyLabels(t *testing.T) {
	groups := ParseAccessGroups([]string{"admin", "", "  ", "curator@nccp"})
	assert.Len(t, groups, 2)
	assert.Equal(t, "admin", groups[0].Role)
	assert.Equal(t, "curator@nccp", groups[1].String())
}

func TestUserToken_IsStaff(t *testing.T) {
	admin := UserToken{Username: "a", AccessGroups: ParseAccessGroups([]string{"admin"})}
	editor := UserToken{Username: "e", AccessGroups: ParseAccessGroups([]string{"editor"})}
	curator := UserToken{Username: "c", AccessGroups: ParseAccessGroups([]string{"curator@nccp"})}
	plain := UserToken{Username: "p", AccessGroups: ParseAccessGroups([]string{"user"})}

	assert.True(t, admin.IsStaff())
	assert.True(t, editor.IsStaff())
	assert.False(t, curator.IsStaff())
	assert.False(t, plain.IsStaff())
}

func TestUserToken_collectionRoles(t *testing.T) {
	usr := UserToken{
		Username:     "cara",
		AccessGroups: ParseAccessGroups([]string{"curator@nccp", "reviewer@secinj"}),
	}

	assert.True(t, usr.IsCuratorOf("nccp"))
	assert.True(t, usr.IsCuratorOf("NCCP"))
	assert.False(t, usr.IsCuratorOf("secinj"))
	assert.True(t, usr.IsReviewerOf("secinj"))
	assert.False(t, usr.IsReviewerOf("nccp"))
}
