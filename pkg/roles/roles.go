package roles

import (
	"fmt"
	"strings"
)

// Role is an elevated privilege a user can hold. The zero value means the
// user holds no privilege at all.
type Role int

const (
	None Role = iota
	Staff
	Admin
)

func (r Role) String() string {
	switch r {
	case Staff:
		return "staff"
	case Admin:
		return "admin"
	}
	return "none"
}

// Parse converts the stored representation of a role back into a Role.
func Parse(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "staff":
		return Staff, nil
	case "admin":
		return Admin, nil
	case "", "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown role %q", s)
}

// MeetsOrExceeds reports whether a user holding actual may run something
// that requires the required role. Admin includes every Staff privilege.
func MeetsOrExceeds(required, actual Role) bool {
	return actual >= required
}
