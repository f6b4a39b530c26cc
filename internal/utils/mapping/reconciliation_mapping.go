package mapping

import (
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/models"
)

// ToModelReconciliation converts a domain BankReconciliation to a model BankReconciliation
func ToModelReconciliation(d domain.BankReconciliation) models.BankReconciliation {
	ids := d.ReconciledTransactionIDs
	if ids == nil {
		ids = []string{}
	}
	return models.BankReconciliation{
		ReconciliationID:         d.ReconciliationID,
		OrganizationID:           d.OrganizationID,
		BankAccountID:            d.BankAccountID,
		ReconciliationNumber:     d.ReconciliationNumber,
		StatementDate:            d.StatementDate,
		StatementBalance:         d.StatementBalance,
		BookBalance:              d.BookBalance,
		Difference:               d.Difference,
		ClosingBookBalance:       NullDecimal(d.ClosingBookBalance),
		ReconciledTransactionIDs: ids,
		Status:                   string(d.Status),
		CompletedAt:              NullTime(d.CompletedAt),
		CompletedBy:              NullStringValue(d.CompletedBy),
		Notes:                    d.Notes,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a model BankReconciliation to a domain BankReconciliation
func ToDomainReconciliation(m models.BankReconciliation) domain.BankReconciliation {
	ids := m.ReconciledTransactionIDs
	if ids == nil {
		ids = []string{}
	}
	return domain.BankReconciliation{
		ReconciliationID:         m.ReconciliationID,
		OrganizationID:           m.OrganizationID,
		BankAccountID:            m.BankAccountID,
		ReconciliationNumber:     m.ReconciliationNumber,
		StatementDate:            m.StatementDate,
		StatementBalance:         m.StatementBalance,
		BookBalance:              m.BookBalance,
		Difference:               m.Difference,
		ClosingBookBalance:       DecimalPtr(m.ClosingBookBalance),
		ReconciledTransactionIDs: ids,
		Status:                   domain.ReconciliationStatus(m.Status),
		CompletedAt:              TimePtr(m.CompletedAt),
		CompletedBy:              m.CompletedBy.String,
		Notes:                    m.Notes,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}
