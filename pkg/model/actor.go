package model

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleHousekeeping Role = "housekeeping"
	RoleGuest        Role = "guest"
)

// Actor is the caller on whose behalf a lifecycle operation runs.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// SystemActor is used for operations not attributable to a user.
var SystemActor = Actor{ID: "system", Role: RoleAdmin}

func (a Actor) IsStaff() bool {
	switch a.Role {
	case RoleAdmin, RoleManager, RoleReceptionist:
		return true
	}
	return false
}

func (a Actor) CanDelete() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

func (a Actor) Label() string {
	if a.ID == "" {
		return string(a.Role)
	}
	return a.ID
}
