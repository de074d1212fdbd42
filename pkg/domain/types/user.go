package types

// Role represents the access role of a user
type Role string

const (
	RoleAdmin           Role = "Admin"
	RoleSecurityManager Role = "Security Manager"
	RoleSeniorAnalyst   Role = "Senior Analyst"
	RoleAnalyst         Role = "Analyst"
	RoleReadOnly        Role = "Read Only"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSecurityManager, RoleSeniorAnalyst, RoleAnalyst, RoleReadOnly:
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether the role receives privileged-action notifications
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleSecurityManager
}

// UserStatus represents the account status of a user
type UserStatus string

const (
	UserStatusPending  UserStatus = "Pending"
	UserStatusActive   UserStatus = "Active"
	UserStatusDisabled UserStatus = "Disabled"
)

// String returns the string representation of the status
func (s UserStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusDisabled:
		return true
	default:
		return false
	}
}

// Department represents the team a user belongs to
type Department string

const (
	DepartmentBlueTeam   Department = "Blue Team"
	DepartmentRedTeam    Department = "Red Team"
	DepartmentSOC        Department = "SOC"
	DepartmentUnassigned Department = "Unassigned"
)

// String returns the string representation of the department
func (d Department) String() string {
	return string(d)
}

// IsValid checks if the department is valid
func (d Department) IsValid() bool {
	switch d {
	case DepartmentBlueTeam, DepartmentRedTeam, DepartmentSOC, DepartmentUnassigned:
		return true
	default:
		return false
	}
}
