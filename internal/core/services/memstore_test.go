package services_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memState is everything memStore persists. WithinTx snapshots it and restores
// the snapshot when fn fails, which gives nested calls savepoint behaviour.
type memState struct {
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	sequences map[string]int64
	banks     map[string]domain.BankAccount
	txns      map[string]domain.BankTransaction
	transfers map[string]domain.BankTransfer
	recs      map[string]domain.BankReconciliation
	subs      map[string]domain.SubscriptionStatus
	perms     map[string]domain.PermissionSet
	audits    []domain.AuditRecord
}

func (s memState) clone() memState {
	perms := make(map[string]domain.PermissionSet, len(s.perms))
	for k, v := range s.perms {
		perms[k] = maps.Clone(v)
	}
	return memState{
		accounts:  maps.Clone(s.accounts),
		entries:   maps.Clone(s.entries),
		sequences: maps.Clone(s.sequences),
		banks:     maps.Clone(s.banks),
		txns:      maps.Clone(s.txns),
		transfers: maps.Clone(s.transfers),
		recs:      maps.Clone(s.recs),
		subs:      maps.Clone(s.subs),
		perms:     perms,
		audits:    slices.Clone(s.audits),
	}
}

// memStore implements every repository port in memory.
type memStore struct {
	mu sync.Mutex
	memState

	failAudit       bool
	failSaveJournal bool
	txCount         int
}

func newMemStore() *memStore {
	return &memStore{memState: memState{
		accounts:  map[string]domain.Account{},
		entries:   map[string]domain.JournalEntry{},
		sequences: map[string]int64{},
		banks:     map[string]domain.BankAccount{},
		txns:      map[string]domain.BankTransaction{},
		transfers: map[string]domain.BankTransfer{},
		recs:      map[string]domain.BankReconciliation{},
		subs:      map[string]domain.SubscriptionStatus{},
		perms:     map[string]domain.PermissionSet{},
	}}
}

func (m *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          m,
		AccountRepo:        m,
		JournalRepo:        m,
		SequenceRepo:       m,
		BankAccountRepo:    m,
		BankTxnRepo:        m,
		BankTransferRepo:   m,
		ReconciliationRepo: m,
		AccessRepo:         m,
		AuditRepo:          m,
		ReportingRepo:      m,
	}
}

var (
	_ portsrepo.TransactionManager        = (*memStore)(nil)
	_ portsrepo.AccountRepositoryFacade   = (*memStore)(nil)
	_ portsrepo.JournalRepositoryFacade   = (*memStore)(nil)
	_ portsrepo.SequenceRepository        = (*memStore)(nil)
	_ portsrepo.BankAccountRepository     = (*memStore)(nil)
	_ portsrepo.BankTransactionRepository = (*memStore)(nil)
	_ portsrepo.BankTransferRepository    = (*memStore)(nil)
	_ portsrepo.ReconciliationRepository  = (*memStore)(nil)
	_ portsrepo.AccessRepository          = (*memStore)(nil)
	_ portsrepo.AuditRepository           = (*memStore)(nil)
	_ portsrepo.ReportingRepository       = (*memStore)(nil)
)

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	snapshot := m.memState.clone()
	m.txCount++
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.memState = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, what, id)
}

// --- accounts ---

func (m *memStore) liveAccount(orgID, id string) (domain.Account, bool) {
	a, ok := m.accounts[id]
	if !ok || a.OrganizationID != orgID || a.DeletedAt != nil {
		return domain.Account{}, false
	}
	return a, true
}

func (m *memStore) FindAccountByID(_ context.Context, orgID, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.liveAccount(orgID, accountID)
	if !ok {
		return nil, notFound("account", accountID)
	}
	return &a, nil
}

func (m *memStore) FindAccountsByIDs(_ context.Context, orgID string, ids []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		if a, ok := m.liveAccount(orgID, id); ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *memStore) sortedAccounts(orgID string, keep func(domain.Account) bool) []domain.Account {
	var out []domain.Account
	for _, a := range m.accounts {
		if a.OrganizationID == orgID && a.DeletedAt == nil && keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *memStore) ListAccounts(_ context.Context, orgID string, f portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedAccounts(orgID, func(a domain.Account) bool {
		if f.AccountType != "" && a.AccountType != f.AccountType {
			return false
		}
		return f.IncludeInactive || a.IsActive
	}), nil
}

func (m *memStore) CountAccounts(_ context.Context, orgID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.accounts {
		if a.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) HasLinkedBankAccounts(_ context.Context, orgID, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.banks {
		if b.OrganizationID == orgID && b.DeletedAt == nil && b.GLAccountID != nil && *b.GLAccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) HasJournalLines(_ context.Context, orgID, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.OrganizationID != orgID {
			continue
		}
		for _, l := range e.LineItems {
			if l.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memStore) firstActive(orgID, excludeID string, match func(domain.Account) bool) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := m.sortedAccounts(orgID, func(a domain.Account) bool {
		return a.IsActive && !a.IsParent && a.AccountID != excludeID && match(a)
	})
	if len(found) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &found[0], nil
}

func (m *memStore) FindAccountByName(_ context.Context, orgID, name, excludeID string) (*domain.Account, error) {
	return m.firstActive(orgID, excludeID, func(a domain.Account) bool { return strings.EqualFold(a.Name, name) })
}

func (m *memStore) FindAccountByNameContaining(_ context.Context, orgID, fragment, excludeID string) (*domain.Account, error) {
	fragment = strings.ToLower(fragment)
	return m.firstActive(orgID, excludeID, func(a domain.Account) bool {
		return strings.Contains(strings.ToLower(a.Name), fragment)
	})
}

func (m *memStore) FindAccountByTypeAndSubType(_ context.Context, orgID string, t domain.AccountType, subType, excludeID string) (*domain.Account, error) {
	return m.firstActive(orgID, excludeID, func(a domain.Account) bool { return a.AccountType == t && a.SubType == subType })
}

func (m *memStore) FindFirstAccountByType(_ context.Context, orgID string, t domain.AccountType, excludeID string) (*domain.Account, error) {
	return m.firstActive(orgID, excludeID, func(a domain.Account) bool { return a.AccountType == t })
}

func (m *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.OrganizationID == account.OrganizationID && a.Code == account.Code && a.DeletedAt == nil {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.liveAccount(account.OrganizationID, account.AccountID)
	if !ok {
		return notFound("account", account.AccountID)
	}
	a.Name, a.Description, a.SubType, a.IsActive = account.Name, account.Description, account.SubType, account.IsActive
	a.AuditFields = account.AuditFields
	m.accounts[a.AccountID] = a
	return nil
}

func (m *memStore) MarkAccountAsParent(_ context.Context, orgID, accountID, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.liveAccount(orgID, accountID)
	if !ok {
		return notFound("account", accountID)
	}
	a.IsParent = true
	a.Touch(userID, now)
	m.accounts[accountID] = a
	return nil
}

func (m *memStore) SoftDeleteAccount(_ context.Context, orgID, accountID, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.liveAccount(orgID, accountID)
	if !ok {
		return notFound("account", accountID)
	}
	a.DeletedAt = &now
	a.Touch(userID, now)
	m.accounts[accountID] = a
	return nil
}

func (m *memStore) FindAccountsByIDsForUpdate(_ context.Context, orgID string, ids []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		a, ok := m.liveAccount(orgID, id)
		if !ok {
			return nil, notFound("account", id)
		}
		out[id] = a
	}
	return out, nil
}

func (m *memStore) ApplyBalanceDeltas(_ context.Context, orgID string, deltas map[string]domain.BalanceDelta, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range deltas {
		a, ok := m.liveAccount(orgID, id)
		if !ok {
			return notFound("account", id)
		}
		a.Apply(d)
		a.Touch(userID, now)
		m.accounts[id] = a
	}
	return nil
}

// --- journal ---

func (m *memStore) FindJournalEntryByID(_ context.Context, orgID, entryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok || e.OrganizationID != orgID {
		return nil, notFound("journal entry", entryID)
	}
	e.LineItems = slices.Clone(e.LineItems)
	return &e, nil
}

func (m *memStore) FindReversalOf(_ context.Context, orgID, entryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.OrganizationID == orgID && e.ReferenceType == domain.RefJournalReversal && e.ReferenceID == entryID {
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) journalEntries(orgID string) []domain.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JournalEntry
	for _, e := range m.entries {
		if e.OrganizationID == orgID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryNumber > out[j].EntryNumber })
	return out
}

func (m *memStore) ListJournalEntries(_ context.Context, orgID string, f portsrepo.ListJournalEntriesFilter) ([]domain.JournalEntry, *string, error) {
	var matched []domain.JournalEntry
	for _, e := range m.journalEntries(orgID) {
		if f.ReferenceType != "" && e.ReferenceType != f.ReferenceType {
			continue
		}
		if f.ReferenceID != "" && e.ReferenceID != f.ReferenceID {
			continue
		}
		matched = append(matched, e)
	}
	return page(matched, f.Limit, f.NextToken)
}

func (m *memStore) SaveJournalEntry(_ context.Context, entry domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaveJournal {
		return errors.New("journal store unavailable")
	}
	for _, e := range m.entries {
		if e.OrganizationID == entry.OrganizationID && e.EntryNumber == entry.EntryNumber {
			return fmt.Errorf("%w: entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
		}
	}
	entry.LineItems = slices.Clone(entry.LineItems)
	m.entries[entry.EntryID] = entry
	return nil
}

// page slices items using a stringified offset as the token.
func page[T any](items []T, limit int, token *string) ([]T, *string, error) {
	start := 0
	if token != nil && *token != "" {
		n, err := strconv.Atoi(*token)
		if err != nil {
			return nil, nil, apperrors.Validation("invalid page token")
		}
		start = n
	}
	if start > len(items) {
		start = len(items)
	}
	if limit <= 0 {
		limit = len(items)
	}
	end := start + limit
	if end >= len(items) {
		return items[start:], nil, nil
	}
	next := strconv.Itoa(end)
	return items[start:end], &next, nil
}

// --- sequences ---

func (m *memStore) NextValue(_ context.Context, orgID string, kind domain.SequenceKind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := orgID + "|" + string(kind)
	m.sequences[key]++
	return m.sequences[key], nil
}

// --- bank accounts ---

func (m *memStore) liveBank(orgID, id string) (domain.BankAccount, bool) {
	b, ok := m.banks[id]
	if !ok || b.OrganizationID != orgID || b.DeletedAt != nil {
		return domain.BankAccount{}, false
	}
	return b, true
}

func (m *memStore) SaveBankAccount(_ context.Context, account domain.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks[account.BankAccountID] = account
	return nil
}

func (m *memStore) UpdateBankAccount(_ context.Context, account domain.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.liveBank(account.OrganizationID, account.BankAccountID)
	if !ok {
		return notFound("bank account", account.BankAccountID)
	}
	account.CurrentBalance = b.CurrentBalance
	m.banks[account.BankAccountID] = account
	return nil
}

func (m *memStore) SoftDeleteBankAccount(_ context.Context, orgID, id, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.liveBank(orgID, id)
	if !ok {
		return notFound("bank account", id)
	}
	b.DeletedAt = &now
	b.Touch(userID, now)
	m.banks[id] = b
	return nil
}

func (m *memStore) FindBankAccountByID(_ context.Context, orgID, id string) (*domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.liveBank(orgID, id)
	if !ok {
		return nil, notFound("bank account", id)
	}
	return &b, nil
}

func (m *memStore) FindBankAccountsForUpdate(_ context.Context, orgID string, ids []string) (map[string]domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.BankAccount, len(ids))
	for _, id := range ids {
		b, ok := m.liveBank(orgID, id)
		if !ok {
			return nil, notFound("bank account", id)
		}
		out[id] = b
	}
	return out, nil
}

func (m *memStore) ListBankAccounts(_ context.Context, orgID string) ([]domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BankAccount
	for _, b := range m.banks {
		if b.OrganizationID == orgID && b.DeletedAt == nil {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountName < out[j].AccountName })
	return out, nil
}

func (m *memStore) AdjustBankBalance(_ context.Context, orgID, id string, delta decimal.Decimal, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.liveBank(orgID, id)
	if !ok {
		return notFound("bank account", id)
	}
	b.CurrentBalance = b.CurrentBalance.Add(delta)
	b.Touch(userID, now)
	m.banks[id] = b
	return nil
}

func (m *memStore) ClearPrimary(_ context.Context, orgID, exceptID, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.banks {
		if b.OrganizationID == orgID && id != exceptID && b.IsPrimary {
			b.IsPrimary = false
			b.Touch(userID, now)
			m.banks[id] = b
		}
	}
	return nil
}

func (m *memStore) UpdateReconciliationInfo(_ context.Context, orgID, id string, date time.Time, balance decimal.Decimal, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.liveBank(orgID, id)
	if !ok {
		return notFound("bank account", id)
	}
	b.LastReconciledDate = &date
	b.LastReconciledBalance = &balance
	b.Touch(userID, now)
	m.banks[id] = b
	return nil
}

// --- bank transactions ---

func (m *memStore) liveTxn(orgID, id string) (domain.BankTransaction, bool) {
	t, ok := m.txns[id]
	if !ok || t.OrganizationID != orgID || t.DeletedAt != nil {
		return domain.BankTransaction{}, false
	}
	return t, true
}

func (m *memStore) SaveBankTransaction(_ context.Context, txn domain.BankTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.TransactionID] = txn
	return nil
}

func (m *memStore) UpdateBankTransactionDetails(_ context.Context, txn domain.BankTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.liveTxn(txn.OrganizationID, txn.TransactionID)
	if !ok {
		return notFound("transaction", txn.TransactionID)
	}
	t.Description, t.Category, t.Reference, t.TransactionDate = txn.Description, txn.Category, txn.Reference, txn.TransactionDate
	t.AuditFields = txn.AuditFields
	m.txns[t.TransactionID] = t
	return nil
}

func (m *memStore) SetJournalEntryID(_ context.Context, orgID string, ids []string, entryID, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		t, ok := m.liveTxn(orgID, id)
		if !ok {
			return notFound("transaction", id)
		}
		e := entryID
		t.JournalEntryID = &e
		t.Touch(userID, now)
		m.txns[id] = t
	}
	return nil
}

func (m *memStore) MarkReconciled(_ context.Context, orgID string, ids []string, at time.Time, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		t, ok := m.liveTxn(orgID, id)
		if !ok || t.IsReconciled {
			continue
		}
		t.IsReconciled = true
		t.ReconciledDate = &at
		t.Touch(userID, at)
		m.txns[id] = t
		n++
	}
	return n, nil
}

func (m *memStore) SoftDeleteBankTransactions(_ context.Context, orgID string, ids []string, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		t, ok := m.liveTxn(orgID, id)
		if !ok {
			return notFound("transaction", id)
		}
		t.DeletedAt = &now
		t.Touch(userID, now)
		m.txns[id] = t
	}
	return nil
}

func (m *memStore) FindBankTransactionByID(_ context.Context, orgID, id string) (*domain.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.liveTxn(orgID, id)
	if !ok {
		return nil, notFound("transaction", id)
	}
	return &t, nil
}

func (m *memStore) FindBankTransactionsByIDs(_ context.Context, orgID string, ids []string) (map[string]domain.BankTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.BankTransaction, len(ids))
	for _, id := range ids {
		if t, ok := m.liveTxn(orgID, id); ok {
			out[id] = t
		}
	}
	return out, nil
}

func (m *memStore) ListBankTransactions(_ context.Context, orgID string, f portsrepo.ListBankTransactionsFilter) ([]domain.BankTransaction, *string, error) {
	m.mu.Lock()
	var out []domain.BankTransaction
	for _, t := range m.txns {
		if t.OrganizationID != orgID || t.DeletedAt != nil || t.BankAccountID != f.BankAccountID {
			continue
		}
		if f.Unreconciled && t.IsReconciled {
			continue
		}
		out = append(out, t)
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionNumber > out[j].TransactionNumber })
	return page(out, f.Limit, f.NextToken)
}

// --- transfers ---

func (m *memStore) SaveBankTransfer(_ context.Context, t domain.BankTransfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[t.TransferID] = t
	return nil
}

func (m *memStore) liveTransfer(orgID, id string) (domain.BankTransfer, bool) {
	t, ok := m.transfers[id]
	if !ok || t.OrganizationID != orgID || t.DeletedAt != nil {
		return domain.BankTransfer{}, false
	}
	return t, true
}

func (m *memStore) SetTransferJournalEntryID(_ context.Context, orgID, transferID, entryID, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.liveTransfer(orgID, transferID)
	if !ok {
		return notFound("transfer", transferID)
	}
	t.JournalEntryID = &entryID
	t.Touch(userID, now)
	m.transfers[transferID] = t
	return nil
}

func (m *memStore) SoftDeleteBankTransfer(_ context.Context, orgID, transferID, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.liveTransfer(orgID, transferID)
	if !ok {
		return notFound("transfer", transferID)
	}
	t.DeletedAt = &now
	t.Touch(userID, now)
	m.transfers[transferID] = t
	return nil
}

func (m *memStore) FindBankTransferByID(_ context.Context, orgID, transferID string) (*domain.BankTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.liveTransfer(orgID, transferID)
	if !ok {
		return nil, notFound("transfer", transferID)
	}
	return &t, nil
}

func (m *memStore) ListBankTransfers(_ context.Context, orgID string, limit int, token *string) ([]domain.BankTransfer, *string, error) {
	m.mu.Lock()
	var out []domain.BankTransfer
	for _, t := range m.transfers {
		if t.OrganizationID == orgID && t.DeletedAt == nil {
			out = append(out, t)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].TransferNumber > out[j].TransferNumber })
	return page(out, limit, token)
}

// --- reconciliations ---

func (m *memStore) SaveReconciliation(_ context.Context, rec domain.BankReconciliation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ReconciliationID] = rec
	return nil
}

func (m *memStore) UpdateReconciliation(_ context.Context, rec domain.BankReconciliation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[rec.ReconciliationID]; !ok {
		return notFound("reconciliation", rec.ReconciliationID)
	}
	rec.ReconciledTransactionIDs = slices.Clone(rec.ReconciledTransactionIDs)
	m.recs[rec.ReconciliationID] = rec
	return nil
}

func (m *memStore) FindReconciliationByID(_ context.Context, orgID, id string) (*domain.BankReconciliation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok || r.OrganizationID != orgID {
		return nil, notFound("reconciliation", id)
	}
	return &r, nil
}

func (m *memStore) FindReconciliationForUpdate(ctx context.Context, orgID, id string) (*domain.BankReconciliation, error) {
	return m.FindReconciliationByID(ctx, orgID, id)
}

func (m *memStore) ListReconciliations(_ context.Context, orgID, bankAccountID string) ([]domain.BankReconciliation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BankReconciliation
	for _, r := range m.recs {
		if r.OrganizationID == orgID && r.BankAccountID == bankAccountID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReconciliationNumber > out[j].ReconciliationNumber })
	return out, nil
}

// --- access and audit ---

func (m *memStore) FindSubscriptionStatus(_ context.Context, orgID string) (domain.SubscriptionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[orgID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return s, nil
}

func (m *memStore) FindRolePermissions(_ context.Context, orgID, role string) (domain.PermissionSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.perms[orgID+"|"+role]), nil
}

func (m *memStore) ReplaceRolePermissions(_ context.Context, orgID, role string, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perms[orgID+"|"+role] = domain.NewPermissionSet(keys...)
	return nil
}

func (m *memStore) ListOrganizationIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.subs {
		if s.AllowsWrites() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) SaveAuditRecord(_ context.Context, record domain.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAudit {
		return errors.New("audit sink unavailable")
	}
	m.audits = append(m.audits, record)
	return nil
}

// --- reporting ---

func (m *memStore) FindDriftedAccounts(_ context.Context, orgID string) ([]domain.AccountDrift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AccountDrift
	for _, a := range m.sortedAccounts(orgID, func(domain.Account) bool { return true }) {
		if !a.IsBalanceConsistent() {
			out = append(out, domain.AccountDrift{
				AccountID:      a.AccountID,
				Code:           a.Code,
				DebitBalance:   a.DebitBalance,
				CreditBalance:  a.CreditBalance,
				CurrentBalance: a.CurrentBalance,
			})
		}
	}
	return out, nil
}

func (m *memStore) FindUnbalancedEntries(_ context.Context, orgID string) ([]domain.UnbalancedEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.UnbalancedEntry
	for _, e := range m.entries {
		if e.OrganizationID != orgID || e.Status != domain.Posted {
			continue
		}
		d, c := decimal.Zero, decimal.Zero
		for _, l := range e.LineItems {
			d = d.Add(l.Debit)
			c = c.Add(l.Credit)
		}
		if !d.Equal(c) {
			out = append(out, domain.UnbalancedEntry{EntryID: e.EntryID, EntryNumber: e.EntryNumber, TotalDebit: d, TotalCredit: c})
		}
	}
	return out, nil
}

// --- test helpers ---

func (m *memStore) account(id string) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id]
}

func (m *memStore) bank(id string) domain.BankAccount {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.banks[id]
}

func (m *memStore) txn(id string) domain.BankTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txns[id]
}

func (m *memStore) liveTxnCount(orgID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.txns {
		if t.OrganizationID == orgID && t.DeletedAt == nil {
			n++
		}
	}
	return n
}

func (m *memStore) transferCount(orgID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.transfers {
		if t.OrganizationID == orgID && t.DeletedAt == nil {
			n++
		}
	}
	return n
}
