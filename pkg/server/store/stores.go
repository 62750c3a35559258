package store

// Stores bundles the store implementations a server runs against
type Stores struct {
	Membership MembershipStore
	Users      UsersStore
	Logs       LogsStore
	Health     HealthStore
}
