package model

import "fmt"

// Role is the closed set of marketplace roles. Gating decisions switch on
// this type rather than comparing raw strings from the token.
type Role string

const (
	RoleBuyer   Role = "pembeli"
	RoleSeller  Role = "penjual"
	RoleCourier Role = "kurir"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role value from the wire or the database.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RoleCourier, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
