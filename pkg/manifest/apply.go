package manifest

import (
	"context"
	"fmt"

	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// RoleReport describes what Apply did, or would do, to one role
type RoleReport struct {
	Role    string            `json:"role"`
	Created bool              `json:"created"`
	Added   []string          `json:"added"`
	Removed []string          `json:"removed"`
	Result  membership.Result `json:"result"`
}

// Report is the outcome of applying a manifest
type Report struct {
	DryRun bool         `json:"dryRun"`
	Roles  []RoleReport `json:"roles"`
}

// Succeeded reports whether every role was applied without rejections
func (r *Report) Succeeded() bool {
	for _, role := range r.Roles {
		if !role.Result.Succeeded {
			return false
		}
	}
	return true
}

// Option configures Apply
type Option func(*options)

type options struct {
	dryRun    bool
	reconcile []membership.Option
}

// WithDryRun computes the report without changing the store
func WithDryRun() Option {
	return func(o *options) {
		o.dryRun = true
	}
}

// WithObserver is called for every membership change Apply attempts
func WithObserver(fn func(membership.Change)) Option {
	return func(o *options) {
		o.reconcile = append(o.reconcile, membership.WithObserver(fn))
	}
}

// Apply brings the roles listed in m to their declared members. Member
// names that match no user are reported as rejections. Store faults abort
// the run; roles already applied stay applied.
func Apply(ctx context.Context, s store.MembershipStore, m *Manifest, opts ...Option) (*Report, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	roles, err := s.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	rolesByName := make(map[string]store.Role, len(roles))
	for _, role := range roles {
		rolesByName[store.Normalize(role.Name)] = role
	}
	usersByName := make(map[string]store.User, len(users))
	for _, user := range users {
		usersByName[store.Normalize(user.UserName)] = user
	}

	report := &Report{DryRun: o.dryRun, Roles: make([]RoleReport, 0, len(m.Roles))}
	for _, spec := range m.Roles {
		rr, err := applyRole(ctx, s, spec, rolesByName, usersByName, users, o)
		if err != nil {
			return report, err
		}
		report.Roles = append(report.Roles, rr)
	}
	return report, nil
}

func applyRole(
	ctx context.Context,
	s store.MembershipStore,
	spec RoleSpec,
	rolesByName map[string]store.Role,
	usersByName map[string]store.User,
	users []store.User,
	o *options,
) (RoleReport, error) {
	rr := RoleReport{Role: spec.Name, Added: []string{}, Removed: []string{}}
	var errs membership.Errors

	desired := make(map[string]store.User, len(spec.Members))
	for _, name := range spec.Members {
		user, ok := usersByName[store.Normalize(name)]
		if !ok {
			errs.Add(fmt.Sprintf("User %s does not exist.", name))
			continue
		}
		desired[user.ID] = user
	}

	role, exists := rolesByName[store.Normalize(spec.Name)]
	var current []store.User
	switch {
	case exists:
		members, _, err := membership.Partition(ctx, users, role.Name, s.IsMember)
		if err != nil {
			return rr, fmt.Errorf("failed to read members of %s: %w", role.Name, err)
		}
		current = members
	case o.dryRun:
		rr.Created = true
		role = store.Role{Name: spec.Name}
	default:
		created, err := s.CreateRole(ctx, spec.Name)
		if err != nil {
			if !errs.AddError(err) {
				return rr, fmt.Errorf("failed to create role %s: %w", spec.Name, err)
			}
			rr.Result = membership.NewResult(&errs)
			return rr, nil
		}
		rr.Created = true
		role = *created
	}

	delta := membership.Delta{RoleID: role.ID, RoleName: role.Name}
	isCurrent := make(map[string]bool, len(current))
	for _, user := range current {
		isCurrent[user.ID] = true
		if _, keep := desired[user.ID]; !keep {
			delta.RemoveIDs = append(delta.RemoveIDs, user.ID)
			rr.Removed = append(rr.Removed, user.UserName)
		}
	}
	// users order keeps the report stable
	for _, user := range users {
		if _, want := desired[user.ID]; want && !isCurrent[user.ID] {
			delta.AddIDs = append(delta.AddIDs, user.ID)
			rr.Added = append(rr.Added, user.UserName)
		}
	}

	if o.dryRun || (len(delta.AddIDs) == 0 && len(delta.RemoveIDs) == 0) {
		rr.Result = membership.NewResult(&errs)
		return rr, nil
	}

	result, err := membership.Reconcile(ctx, s, delta, o.reconcile...)
	if err != nil {
		return rr, err
	}
	errs.AddAll(result.Errors...)
	rr.Result = membership.NewResult(&errs)
	return rr, nil
}
