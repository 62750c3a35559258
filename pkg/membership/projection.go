package membership

import (
	"context"
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// MemberPredicate reports whether user belongs to the named role
type MemberPredicate func(ctx context.Context, user store.User, roleName string) (bool, error)

// RoleSummary is a role with the names of its members
type RoleSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MemberNames []string `json:"memberNames"`
}

// Members returns the member names joined with ", "
func (r RoleSummary) Members() string {
	return strings.Join(r.MemberNames, ", ")
}

// ListRoles projects every role into a RoleSummary. Roles keep their input
// order and member names follow the order of users. Every (role, user)
// pair is checked.
func ListRoles(ctx context.Context, roles []store.Role, users []store.User, isMember MemberPredicate) ([]RoleSummary, error) {
	summaries := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		members, _, err := Partition(ctx, users, role.Name, isMember)
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(members))
		for _, user := range members {
			names = append(names, user.UserName)
		}
		summaries = append(summaries, RoleSummary{ID: role.ID, Name: role.Name, MemberNames: names})
	}
	return summaries, nil
}

// Partition splits users into members and non-members of the named role,
// preserving the order of users.
func Partition(ctx context.Context, users []store.User, roleName string, isMember MemberPredicate) (members, nonMembers []store.User, err error) {
	members = make([]store.User, 0)
	nonMembers = make([]store.User, 0)
	for _, user := range users {
		ok, err := isMember(ctx, user, roleName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check membership of %q in %q: %w", user.UserName, roleName, err)
		}
		if ok {
			members = append(members, user)
		} else {
			nonMembers = append(nonMembers, user)
		}
	}
	return members, nonMembers, nil
}
