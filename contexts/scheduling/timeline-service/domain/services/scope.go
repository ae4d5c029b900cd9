package services

import "strings"

type Role string

const (
	RoleStandard Role = "standard"
	RoleElevated Role = "elevated"
)

// Principal identifies the requester of a timeline or availability operation.
// It is derived per request and never persisted.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) Resolved() bool {
	return strings.TrimSpace(p.ID) != ""
}

func (p Principal) Elevated() bool {
	return p.Resolved() && p.Role == RoleElevated
}

// ScopeRecords restricts a source collection to the records the principal may
// observe. Elevated principals see everything; standard principals see only
// records they own. An unresolved principal sees nothing: default deny, never
// "no filter".
func ScopeRecords[T any](records []T, ownerOf func(T) string, principal Principal) []T {
	if !principal.Resolved() {
		return nil
	}
	if principal.Elevated() {
		return records
	}
	scoped := make([]T, 0, len(records))
	for _, record := range records {
		if strings.EqualFold(strings.TrimSpace(ownerOf(record)), strings.TrimSpace(principal.ID)) {
			scoped = append(scoped, record)
		}
	}
	return scoped
}
