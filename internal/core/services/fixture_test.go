package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testOrg = "org-1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerSuite wires the real services over memStore.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memStore
	svc   *portssvc.ServiceContainer
	owner domain.Actor
	clerk domain.Actor
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.store.subs[testOrg] = domain.SubscriptionActive
	s.svc = services.NewServiceContainer(nil, s.store.provider(), nil)
	s.owner = domain.Actor{OrganizationID: testOrg, UserID: "user-owner", Role: domain.RoleOwner}
	s.clerk = domain.Actor{OrganizationID: testOrg, UserID: "user-clerk", Role: "clerk"}
}

// addAccount inserts an active account with zero balances and returns its id.
func (s *ledgerSuite) addAccount(code, name string, t domain.AccountType, subType string) string {
	id := uuid.NewString()
	s.store.accounts[id] = domain.Account{
		AccountID:      id,
		OrganizationID: testOrg,
		Code:           code,
		Name:           name,
		AccountType:    t,
		SubType:        subType,
		DebitBalance:   decimal.Zero,
		CreditBalance:  decimal.Zero,
		CurrentBalance: decimal.Zero,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields("seed", time.Now()),
	}
	return id
}

// addBank inserts a bank account with the given balance, linked to glID when non-empty.
func (s *ledgerSuite) addBank(name, glID, balance string) string {
	id := uuid.NewString()
	b := domain.BankAccount{
		BankAccountID:  id,
		OrganizationID: testOrg,
		AccountNumber:  "000123456789",
		AccountName:    name,
		BankName:       "First Bank",
		AccountType:    "checking",
		CurrentBalance: dec(balance),
		IsActive:       true,
		AuditFields:    domain.NewAuditFields("seed", time.Now()),
	}
	if glID != "" {
		b.GLAccountID = &glID
	}
	s.store.banks[id] = b
	return id
}

// assertLedgerInvariants checks that every posted entry balances and every
// account's current balance equals debit minus credit.
func (s *ledgerSuite) assertLedgerInvariants() {
	for _, a := range s.store.accounts {
		s.True(a.CurrentBalance.Equal(a.DebitBalance.Sub(a.CreditBalance)),
			"account %s current %s debit %s credit %s", a.Code, a.CurrentBalance, a.DebitBalance, a.CreditBalance)
	}
	for _, e := range s.store.entries {
		if e.Status != domain.Posted {
			continue
		}
		d, c := decimal.Zero, decimal.Zero
		for _, l := range e.LineItems {
			d = d.Add(l.Debit)
			c = c.Add(l.Credit)
		}
		s.True(d.Equal(c), "entry %s lines do not balance", e.EntryNumber)
		s.True(d.Equal(e.TotalDebit) && c.Equal(e.TotalCredit), "entry %s totals are stale", e.EntryNumber)
	}
}
