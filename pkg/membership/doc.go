// Package membership reconciles a role's membership with an operator's
// requested changes and projects roles into listing views.
//
// A Delta names a role and the user ids to add and remove. Reconcile applies
// every addition and then every removal against a store.MembershipStore:
//
//   - ids that don't resolve to a user are skipped silently
//   - changes the store rejects are collected in an Errors aggregator and
//     processing continues with the next id
//   - any other store failure aborts the batch; changes already applied stay
//
// The aggregated outcome is reported as a Result, which succeeds exactly when
// no messages were collected.
//
//	res, err := membership.Reconcile(ctx, s, membership.Delta{
//	    RoleName: "Editors",
//	    AddIDs:   []string{aliceID},
//	})
//	if err != nil {
//	    return err
//	}
//	if !res.Succeeded {
//	    // show res.Errors
//	}
//
// ListRoles and Partition build the role listing and the member/non-member
// split shown when editing a role.
package membership
