package identity

import (
	"strings"
)

// Role tags carried in a user's access groups.
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleCurator  = "curator"
	RoleReviewer = "reviewer"
	RoleUser     = "user"
)

// AccessGroup is a parsed access-group label. Collection-scoped labels
// ("curator@nccp") carry the collection; global labels ("admin") do not.
type AccessGroup struct {
	Role       string
	Collection string
}

func (g AccessGroup) String() string {
	if g.Collection == "" {
		return g.Role
	}
	return g.Role + "@" + g.Collection
}

// ParseAccessGroup parses a raw access-group label.
func ParseAccessGroup(label string) AccessGroup {
	parts := strings.SplitN(strings.TrimSpace(label), "@", 2)
	group := AccessGroup{Role: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		group.Collection = strings.ToLower(parts[1])
	}
	return group
}

// ParseAccessGroups parses raw access-group labels, dropping empty ones.
func ParseAccessGroups(labels []string) []AccessGroup {
	groups := make([]AccessGroup, 0, len(labels))
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		groups = append(groups, ParseAccessGroup(label))
	}
	return groups
}

// UserToken is the verified-identity snapshot for the current request.
// It is constructed once from upstream-verified credentials and read-only
// for the duration of the request.
type UserToken struct {
	Username      string
	Name          string
	Email         string
	Organization  string
	EmailVerified bool
	AccessGroups  []AccessGroup
}

func (u UserToken) hasRole(role string) bool {
	for _, group := range u.AccessGroups {
		if group.Role == role {
			return true
		}
	}
	return false
}

func (u UserToken) IsAdmin() bool  { return u.hasRole(RoleAdmin) }
func (u UserToken) IsEditor() bool { return u.hasRole(RoleEditor) }

// IsStaff reports whether the user holds privileged (admin or editor) access.
// Privilege only ever overrides delete operations, never create ones.
func (u UserToken) IsStaff() bool { return u.IsAdmin() || u.IsEditor() }

// IsCuratorOf reports whether the user curates the given collection.
func (u UserToken) IsCuratorOf(collection string) bool {
	collection = strings.ToLower(collection)
	for _, group := range u.AccessGroups {
		if group.Role == RoleCurator && group.Collection == collection {
			return true
		}
	}
	return false
}

// IsReviewerOf reports whether the user reviews the given collection.
func (u UserToken) IsReviewerOf(collection string) bool {
	collection = strings.ToLower(collection)
	for _, group := range u.AccessGroups {
		if group.Role == RoleReviewer && group.Collection == collection {
			return true
		}
	}
	return false
}
