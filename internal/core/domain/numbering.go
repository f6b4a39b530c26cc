package domain

import "fmt"

// SequenceKind names a per-organization document counter.
type SequenceKind string

const (
	SeqJournalEntry    SequenceKind = "journal_entry"
	SeqBankTransaction SequenceKind = "bank_transaction"
	SeqBankTransfer    SequenceKind = "bank_transfer"
	SeqReconciliation  SequenceKind = "bank_reconciliation"
	SeqVendor          SequenceKind = "vendor"
)

type sequenceFormat struct {
	prefix string
	width  int
}

var sequenceFormats = map[SequenceKind]sequenceFormat{
	SeqJournalEntry:    {prefix: "JE", width: 6},
	SeqBankTransaction: {prefix: "BTX", width: 6},
	SeqBankTransfer:    {prefix: "TRF", width: 6},
	SeqReconciliation:  {prefix: "REC", width: 6},
	SeqVendor:          {prefix: "VEN", width: 5},
}

// FormatSequenceNumber renders n in the persisted format of kind, e.g. JE-000001.
func FormatSequenceNumber(kind SequenceKind, n int64) (string, error) {
	f, ok := sequenceFormats[kind]
	if !ok {
		return "", fmt.Errorf("unknown sequence kind %q", kind)
	}
	if n <= 0 {
		return "", fmt.Errorf("sequence value must be positive, got %d", n)
	}
	return fmt.Sprintf("%s-%0*d", f.prefix, f.width, n), nil
}
