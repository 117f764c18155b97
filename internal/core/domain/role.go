package domain

import (
	"fmt"
	"sort"
)

// Role is a granted authority tag as stored in the roles table/collection.
type Role string

const (
	RoleAdmin  Role = "ROLE_ADMIN"
	RoleClient Role = "ROLE_CLIENT"
)

// ParseRole maps a stored authority tag onto the closed role set.
func ParseRole(tag string) (Role, error) {
	switch Role(tag) {
	case RoleAdmin, RoleClient:
		return Role(tag), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, tag)
}

// RoleSet is an unordered set of roles. The zero value is an empty set and
// is safe to read, but Add requires a set built with NewRoleSet.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Add(r Role) { s[r] = struct{}{} }

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// HasAny reports whether at least one of roles is in the set.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) Len() int { return len(s) }

// Strings returns the tags sorted, for tokens and responses.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}
