package audit

import "fmt"

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// RoleEvent represents a role create, delete or rename audit event
type RoleEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // create, delete, rename
	RoleName     string
	NewName      string
	Success      bool
	ErrorMessage string
}

func (e RoleEvent) MessageID() string {
	return "role"
}

func (e RoleEvent) Message() string {
	var action string
	switch e.Operation {
	case "rename":
		action = fmt.Sprintf("rename role %s to %s", e.RoleName, e.NewName)
	default:
		action = fmt.Sprintf("%s role %s", e.Operation, e.RoleName)
	}
	if e.Success {
		return fmt.Sprintf("%s: %s", e.UserID, action)
	}
	return withError(fmt.Sprintf("%s failed to %s", e.UserID, action), e.ErrorMessage)
}

func (e RoleEvent) Severity() Severity {
	return severity(e.Success)
}

func (e RoleEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleEvent) StructuredData() map[string]map[string]string {
	subject := map[string]string{"role": e.RoleName}
	if e.NewName != "" {
		subject["new_name"] = e.NewName
	}
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: subject,
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// MembershipEvent represents adding a user to or removing a user from a role
type MembershipEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // add, remove
	RoleName     string
	Member       string
	Success      bool
	ErrorMessage string
}

func (e MembershipEvent) MessageID() string {
	return "membership"
}

func (e MembershipEvent) Message() string {
	var action string
	if e.Operation == "remove" {
		action = fmt.Sprintf("remove %s from role %s", e.Member, e.RoleName)
	} else {
		action = fmt.Sprintf("add %s to role %s", e.Member, e.RoleName)
	}
	if e.Success {
		return fmt.Sprintf("%s: %s", e.UserID, action)
	}
	return withError(fmt.Sprintf("%s failed to %s", e.UserID, action), e.ErrorMessage)
}

func (e MembershipEvent) Severity() Severity {
	return severity(e.Success)
}

func (e MembershipEvent) Facility() int {
	return FacilityAuthPriv
}

func (e MembershipEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {"user": e.UserID},
		SDIDSubject: {
			"role":   e.RoleName,
			"member": e.Member,
		},
		SDIDClient: {"ip": e.ClientIP},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// UserEvent represents a user create, update, delete or register audit event
type UserEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // create, update, delete, register
	Subject      string
	Success      bool
	ErrorMessage string
}

func (e UserEvent) MessageID() string {
	return "user"
}

func (e UserEvent) Message() string {
	action := fmt.Sprintf("%s user %s", e.Operation, e.Subject)
	if e.Success {
		return fmt.Sprintf("%s: %s", e.UserID, action)
	}
	return withError(fmt.Sprintf("%s failed to %s", e.UserID, action), e.ErrorMessage)
}

func (e UserEvent) Severity() Severity {
	return severity(e.Success)
}

func (e UserEvent) Facility() int {
	return FacilityAuthPriv
}

func (e UserEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"user": e.Subject},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}
