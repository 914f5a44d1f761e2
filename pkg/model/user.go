package model

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleAdminDorm1 = "admin-dormitory-1"
	RoleAdminDorm2 = "admin-dormitory-2"
)

const (
	Dormitory1 = "dormitory-1"
	Dormitory2 = "dormitory-2"
)

// User mirrors the backend's user record. Phone is the login identity
// and, like the dormitory assignment, immutable after registration.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Phone     string `json:"phone" validate:"required,phone"`
	StudentID string `json:"student_id" validate:"required,numeric,min=5,max=15"`
	Dormitory string `json:"dormitory" validate:"required,oneof=dormitory-1 dormitory-2"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin admin-dormitory-1 admin-dormitory-2"`
	Token     string `json:"token,omitempty"`
}

// IsAdmin covers the global admin and both dormitory-scoped admins.
func (u *User) IsAdmin() bool {
	switch u.Role {
	case RoleAdmin, RoleAdminDorm1, RoleAdminDorm2:
		return true
	}
	return false
}

// AdminDormitory returns the dormitory a scoped admin manages, or ""
// for the global admin and plain users. The backend enforces the
// scoping; the gateway mirrors it only to filter what it displays.
func (u *User) AdminDormitory() string {
	switch u.Role {
	case RoleAdminDorm1:
		return Dormitory1
	case RoleAdminDorm2:
		return Dormitory2
	}
	return ""
}

// RoleName is the Persian display name for a role.
func RoleName(role string) string {
	switch role {
	case RoleAdmin:
		return "مدیر کل"
	case RoleAdminDorm1:
		return "مدیر خوابگاه ۱"
	case RoleAdminDorm2:
		return "مدیر خوابگاه ۲"
	case RoleUser:
		return "کاربر"
	default:
		return "نامشخص"
	}
}
