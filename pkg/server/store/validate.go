package store

import (
	"fmt"
	"strings"
	"unicode"
)

const allowedUserNameSymbols = "-._@+"

// PasswordPolicy describes the rules a new password must satisfy
type PasswordPolicy struct {
	RequiredLength         int
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireNonAlphanumeric bool
}

// DefaultPasswordPolicy is applied when no configuration is provided
var DefaultPasswordPolicy = PasswordPolicy{
	RequiredLength:         6,
	RequireDigit:           true,
	RequireLowercase:       true,
	RequireUppercase:       true,
	RequireNonAlphanumeric: true,
}

// Check returns one message per rule the password breaks
func (p PasswordPolicy) Check(password string) []string {
	var messages []string
	if len([]rune(password)) < p.RequiredLength {
		messages = append(messages, fmt.Sprintf("Passwords must be at least %d characters.", p.RequiredLength))
	}

	var hasDigit, hasLower, hasUpper, hasOther bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		default:
			hasOther = true
		}
	}

	if p.RequireNonAlphanumeric && !hasOther {
		messages = append(messages, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !hasDigit {
		messages = append(messages, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLowercase && !hasLower {
		messages = append(messages, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUppercase && !hasUpper {
		messages = append(messages, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	return messages
}

// CheckUserName returns a message if the name is empty or contains
// characters outside letters, digits and -._@+
func CheckUserName(name string) []string {
	valid := name != ""
	for _, r := range name {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(allowedUserNameSymbols, r)) {
			valid = false
			break
		}
	}
	if !valid {
		return []string{fmt.Sprintf("Username '%s' is invalid, can only contain letters or digits.", name)}
	}
	return nil
}

// CheckRoleName returns a message if the role name is blank
func CheckRoleName(name string) []string {
	if strings.TrimSpace(name) == "" {
		return []string{fmt.Sprintf("Role name '%s' is invalid.", name)}
	}
	return nil
}

// Normalize returns the lookup form of a user or role name
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Messages for rejected operations, shared by the store implementations
func AlreadyInRole(roleName string) string {
	return fmt.Sprintf("User already in role '%s'.", roleName)
}

func NotInRole(roleName string) string {
	return fmt.Sprintf("User is not in role '%s'.", roleName)
}

func RoleNameTaken(roleName string) string {
	return fmt.Sprintf("Role name '%s' is already taken.", roleName)
}

func RoleDoesNotExist(roleName string) string {
	return fmt.Sprintf("Role %s does not exist.", roleName)
}

func UserNameTaken(userName string) string {
	return fmt.Sprintf("Username '%s' is already taken.", userName)
}
