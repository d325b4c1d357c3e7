package models

type MemberRole string

const (
	RoleAdmin   MemberRole = "admin"
	RolePartner MemberRole = "partner"
	RoleChild   MemberRole = "child"
)

// Member is a tracked identity (profile). The primary member carries the
// fixed sentinel local id and can never be deleted.
type Member struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Role  MemberRole `json:"role"`
	Color string     `json:"color,omitempty"`
}
