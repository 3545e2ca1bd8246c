package model

type UserRole int8

const (
	UserRoleDefault = UserRole(iota)
	UserRoleAdmin
	UserRolePremium
)

func (r UserRole) String() string {
	switch r {
	case UserRoleAdmin:
		return "admin"
	case UserRolePremium:
		return "premium"
	default:
		return "default"
	}
}

func ParseUserRole(s string) UserRole {
	switch s {
	case "admin":
		return UserRoleAdmin
	case "premium":
		return UserRolePremium
	default:
		return UserRoleDefault
	}
}
