package domain

// SubscriptionStatus is the billing state of an organization.
type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// AllowsWrites reports whether mutations are permitted under this status.
func (s SubscriptionStatus) AllowsWrites() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// RoleOwner holds every permission regardless of the stored permission set.
const RoleOwner = "owner"

// Permission keys checked before mutations.
const (
	PermAccountsCreate          = "accounts_create"
	PermAccountsUpdate          = "accounts_update"
	PermAccountsDelete          = "accounts_delete"
	PermJournalEntriesCreate    = "journalEntries_create"
	PermJournalEntriesReverse   = "journalEntries_reverse"
	PermBankAccountsCreate      = "bankAccounts_create"
	PermBankAccountsUpdate      = "bankAccounts_update"
	PermBankAccountsDelete      = "bankAccounts_delete"
	PermTransactionsCreate      = "transactions_create"
	PermTransactionsUpdate      = "transactions_update"
	PermTransactionsDelete      = "transactions_delete"
	PermTransactionsReconcile   = "transactions_reconcile"
	PermTransfersCreate         = "transfers_create"
	PermTransfersDelete         = "transfers_delete"
	PermReconciliationsCreate   = "reconciliations_create"
	PermReconciliationsComplete = "reconciliations_complete"
	PermReportsView             = "reports_view"
)

// PermissionSet is the set of permission keys granted to a role.
type PermissionSet map[string]bool

// NewPermissionSet builds a set from keys.
func NewPermissionSet(keys ...string) PermissionSet {
	set := make(PermissionSet, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// Has reports whether key is granted.
func (p PermissionSet) Has(key string) bool {
	return p[key]
}

// Keys returns the granted keys in no particular order.
func (p PermissionSet) Keys() []string {
	keys := make([]string, 0, len(p))
	for k, ok := range p {
		if ok {
			keys = append(keys, k)
		}
	}
	return keys
}
