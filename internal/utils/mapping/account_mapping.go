package mapping

import (
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		OrganizationID:  d.OrganizationID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		SubType:         d.SubType,
		ParentAccountID: NullString(d.ParentAccountID),
		IsParent:        d.IsParent,
		Description:     d.Description,
		DebitBalance:    d.DebitBalance,
		CreditBalance:   d.CreditBalance,
		CurrentBalance:  d.CurrentBalance,
		IsActive:        d.IsActive,
		IsSystemAccount: d.IsSystemAccount,
		DeletedAt:       NullTime(d.DeletedAt),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		OrganizationID:  m.OrganizationID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		SubType:         m.SubType,
		ParentAccountID: StringPtr(m.ParentAccountID),
		IsParent:        m.IsParent,
		Description:     m.Description,
		DebitBalance:    m.DebitBalance,
		CreditBalance:   m.CreditBalance,
		CurrentBalance:  m.CurrentBalance,
		IsActive:        m.IsActive,
		IsSystemAccount: m.IsSystemAccount,
		DeletedAt:       TimePtr(m.DeletedAt),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
