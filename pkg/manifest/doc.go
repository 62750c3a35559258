// Package manifest declares role membership in a YAML file and applies it.
//
// A manifest lists roles and the user names that should belong to them:
//
//	roles:
//	  - name: Editors
//	    members: [alice, carol]
//	  - name: Auditors
//	    members: []
//
// Apply creates roles that do not exist yet and reconciles each listed role
// to exactly the given members. Roles absent from the manifest are left
// alone. Names are matched ignoring case.
package manifest
