package models

// Role is one of the three fixed staff roles.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

var roleRank = map[Role]int{
	RoleStaff: 1,
	RoleAdmin: 2,
	RoleOwner: 3,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants. Unknown roles grant nothing.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

// Identity is who a session belongs to. Role is only filled in after it has
// been resolved against the credential store.
type Identity struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role,omitempty"`
}
