// Package audit provides audit logging for identity administration.
//
// This package implements structured audit logging for security-relevant
// operations such as role changes, membership changes and user lifecycle
// events. Events are written in RFC5424 syslog format and, when a Sink is
// installed, persisted for the log viewer. Store is the Sink backed by the
// messages table.
//
// # Event Types
//
//   - RoleEvent: role create, delete and rename
//   - MembershipEvent: user added to or removed from a role
//   - UserEvent: user create, update, delete and self registration
//
// # Usage
//
//	audit.Log(audit.RoleEvent{
//	    UserID:    "admin",
//	    Operation: "create",
//	    RoleName:  "Editors",
//	    Success:   true,
//	})
//
// NewCore adapts a Sink into a zap core so application log entries at or
// above a level are persisted alongside audit events.
//
// Audit logging can be disabled with IDM_AUDIT_ENABLED=false.
package audit
