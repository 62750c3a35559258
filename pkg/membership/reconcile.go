package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// Delta is the set of membership changes requested for one role
type Delta struct {
	RoleID    string   `json:"roleId"`
	RoleName  string   `json:"roleName"`
	AddIDs    []string `json:"addIds"`
	RemoveIDs []string `json:"deleteIds"`
}

// Operation identifies the kind of membership change
type Operation string

const (
	OperationAdd    Operation = "add"
	OperationRemove Operation = "remove"
)

// Change describes a single applied or rejected membership change
type Change struct {
	Operation Operation
	User      store.User
	RoleName  string
	// Rejected holds the store's messages when the change was refused
	Rejected []string
}

// Option configures Reconcile
type Option func(*options)

type options struct {
	observers []func(Change)
}

// WithObserver registers fn to be called after every attempted change on a
// resolved user, whether applied or rejected.
func WithObserver(fn func(Change)) Option {
	return func(o *options) {
		o.observers = append(o.observers, fn)
	}
}

type mutation func(ctx context.Context, user store.User, roleName string) error

// Reconcile applies all additions and then all removals in delta. Unknown
// user ids are skipped. Store rejections are aggregated into the Result.
// A non-validation error aborts the batch and is returned as is; changes
// applied before it are not rolled back.
func Reconcile(ctx context.Context, s store.MembershipStore, delta Delta, opts ...Option) (Result, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	errs := &Errors{}
	if err := apply(ctx, s, delta.RoleName, unique(delta.AddIDs), OperationAdd, s.AddToRole, errs, o); err != nil {
		return NewResult(errs), err
	}
	if err := apply(ctx, s, delta.RoleName, unique(delta.RemoveIDs), OperationRemove, s.RemoveFromRole, errs, o); err != nil {
		return NewResult(errs), err
	}
	return NewResult(errs), nil
}

func apply(ctx context.Context, s store.MembershipStore, roleName string, ids []string, op Operation, mutate mutation, errs *Errors, o *options) error {
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		user, err := s.FindUser(ctx, id)
		if errors.Is(err, store.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to find user %q: %w", id, err)
		}

		change := Change{Operation: op, User: *user, RoleName: roleName}
		if err := mutate(ctx, *user, roleName); err != nil {
			verr, ok := store.AsValidation(err)
			if !ok {
				return fmt.Errorf("failed to %s user %q for role %q: %w", op, id, roleName, err)
			}
			errs.AddAll(verr.Messages...)
			change.Rejected = verr.Messages
		}

		for _, observe := range o.observers {
			observe(change)
		}
	}
	return nil
}

// unique drops repeated ids, keeping the first occurrence
func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
