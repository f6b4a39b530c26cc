package mapping

import (
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a row carrying the
// already sealed account number.
func ToModelBankAccount(d domain.BankAccount, sealedNumber []byte) models.BankAccount {
	return models.BankAccount{
		BankAccountID:         d.BankAccountID,
		OrganizationID:        d.OrganizationID,
		AccountNumberSealed:   sealedNumber,
		AccountName:           d.AccountName,
		BankName:              d.BankName,
		AccountType:           d.AccountType,
		CurrentBalance:        d.CurrentBalance,
		GLAccountID:           NullString(d.GLAccountID),
		IsPrimary:             d.IsPrimary,
		IsActive:              d.IsActive,
		LastReconciledDate:    NullTime(d.LastReconciledDate),
		LastReconciledBalance: NullDecimal(d.LastReconciledBalance),
		DeletedAt:             NullTime(d.DeletedAt),
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a row to a domain BankAccount with the opened account number.
func ToDomainBankAccount(m models.BankAccount, accountNumber string) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:         m.BankAccountID,
		OrganizationID:        m.OrganizationID,
		AccountNumber:         accountNumber,
		AccountName:           m.AccountName,
		BankName:              m.BankName,
		AccountType:           m.AccountType,
		CurrentBalance:        m.CurrentBalance,
		GLAccountID:           StringPtr(m.GLAccountID),
		IsPrimary:             m.IsPrimary,
		IsActive:              m.IsActive,
		LastReconciledDate:    TimePtr(m.LastReconciledDate),
		LastReconciledBalance: DecimalPtr(m.LastReconciledBalance),
		DeletedAt:             TimePtr(m.DeletedAt),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransaction converts a domain BankTransaction to a model BankTransaction
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		TransactionID:     d.TransactionID,
		OrganizationID:    d.OrganizationID,
		BankAccountID:     d.BankAccountID,
		TransactionNumber: d.TransactionNumber,
		TransactionDate:   d.TransactionDate,
		TransactionType:   string(d.TransactionType),
		Direction:         string(d.Direction),
		Amount:            d.Amount,
		Description:       d.Description,
		Category:          d.Category,
		Reference:         d.Reference,
		IsReconciled:      d.IsReconciled,
		ReconciledDate:    NullTime(d.ReconciledDate),
		JournalEntryID:    NullString(d.JournalEntryID),
		TransferID:        NullString(d.TransferID),
		DeletedAt:         NullTime(d.DeletedAt),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a model BankTransaction to a domain BankTransaction
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:     m.TransactionID,
		OrganizationID:    m.OrganizationID,
		BankAccountID:     m.BankAccountID,
		TransactionNumber: m.TransactionNumber,
		TransactionDate:   m.TransactionDate,
		TransactionType:   domain.BankTransactionType(m.TransactionType),
		Direction:         domain.CashDirection(m.Direction),
		Amount:            m.Amount,
		Description:       m.Description,
		Category:          m.Category,
		Reference:         m.Reference,
		IsReconciled:      m.IsReconciled,
		ReconciledDate:    TimePtr(m.ReconciledDate),
		JournalEntryID:    StringPtr(m.JournalEntryID),
		TransferID:        StringPtr(m.TransferID),
		DeletedAt:         TimePtr(m.DeletedAt),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransfer converts a domain BankTransfer to a model BankTransfer
func ToModelBankTransfer(d domain.BankTransfer) models.BankTransfer {
	return models.BankTransfer{
		TransferID:        d.TransferID,
		OrganizationID:    d.OrganizationID,
		TransferNumber:    d.TransferNumber,
		FromBankAccountID: d.FromBankAccountID,
		ToBankAccountID:   d.ToBankAccountID,
		Amount:            d.Amount,
		TransferDate:      d.TransferDate,
		Description:       d.Description,
		FromTransactionID: d.FromTransactionID,
		ToTransactionID:   d.ToTransactionID,
		JournalEntryID:    NullString(d.JournalEntryID),
		DeletedAt:         NullTime(d.DeletedAt),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransfer converts a model BankTransfer to a domain BankTransfer
func ToDomainBankTransfer(m models.BankTransfer) domain.BankTransfer {
	return domain.BankTransfer{
		TransferID:        m.TransferID,
		OrganizationID:    m.OrganizationID,
		TransferNumber:    m.TransferNumber,
		FromBankAccountID: m.FromBankAccountID,
		ToBankAccountID:   m.ToBankAccountID,
		Amount:            m.Amount,
		TransferDate:      m.TransferDate,
		Description:       m.Description,
		FromTransactionID: m.FromTransactionID,
		ToTransactionID:   m.ToTransactionID,
		JournalEntryID:    StringPtr(m.JournalEntryID),
		DeletedAt:         TimePtr(m.DeletedAt),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
