package mapping

import (
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its header row.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:        d.EntryID,
		OrganizationID: d.OrganizationID,
		EntryNumber:    d.EntryNumber,
		EntryDate:      d.EntryDate,
		EntryType:      string(d.EntryType),
		Description:    d.Description,
		ReferenceType:  NullStringValue(d.ReferenceType),
		ReferenceID:    NullStringValue(d.ReferenceID),
		TotalDebit:     d.TotalDebit,
		TotalCredit:    d.TotalCredit,
		Status:         string(d.Status),
		PostedDate:     NullTime(d.PostedDate),
		PostedBy:       NullStringValue(d.PostedBy),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToModelJournalLines converts the entry's line items to rows.
func ToModelJournalLines(d domain.JournalEntry) []models.JournalLine {
	lines := make([]models.JournalLine, len(d.LineItems))
	for i, l := range d.LineItems {
		lines[i] = models.JournalLine{
			EntryID:     d.EntryID,
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	return lines
}

// ToDomainJournalEntry assembles an entry from its header and lines.
// Totals are taken from the lines, not the stored header columns.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:        m.EntryID,
		OrganizationID: m.OrganizationID,
		EntryNumber:    m.EntryNumber,
		EntryDate:      m.EntryDate,
		EntryType:      domain.EntryType(m.EntryType),
		Description:    m.Description,
		ReferenceType:  m.ReferenceType.String,
		ReferenceID:    m.ReferenceID.String,
		LineItems:      make([]domain.LineItem, len(lines)),
		Status:         domain.JournalStatus(m.Status),
		PostedDate:     TimePtr(m.PostedDate),
		PostedBy:       m.PostedBy.String,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for i, l := range lines {
		d.LineItems[i] = domain.LineItem{
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	d.ComputeTotals()
	return d
}
