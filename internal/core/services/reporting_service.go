package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingSvc interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	accessRepo    portsrepo.AccessRepository
}

// NewReportingService creates the trial balance and integrity service.
func NewReportingService(
	reportingRepo portsrepo.ReportingRepository,
	accountRepo portsrepo.AccountReader,
	accessRepo portsrepo.AccessRepository,
	base BaseService,
) portssvc.ReportingSvc {
	return &reportingService{
		BaseService:   base,
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		accessRepo:    accessRepo,
	}
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// TrialBalance builds the report from running balances. Viewing reports is allowed
// whatever the subscription state.
func (s *reportingService) TrialBalance(ctx context.Context, actor domain.Actor) (*domain.TrialBalance, error) {
	if err := s.Access.CheckPermission(ctx, actor, domain.PermReportsView); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, actor.OrganizationID, portsrepo.ListAccountsFilter{IncludeInactive: true})
	if err != nil {
		s.LogError(ctx, err, "Failed to get trial balance data")
		return nil, err
	}
	tb := domain.NewTrialBalance(actor.OrganizationID, accounts, s.Now())
	if !tb.IsBalanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("org_id", actor.OrganizationID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	return &tb, nil
}

func (s *reportingService) CheckLedgerIntegrity(ctx context.Context, orgID string) (*domain.IntegrityReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, orgID, portsrepo.ListAccountsFilter{IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for %s: %w", orgID, err)
	}
	drifted, err := s.reportingRepo.FindDriftedAccounts(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to check account balances for %s: %w", orgID, err)
	}
	unbalanced, err := s.reportingRepo.FindUnbalancedEntries(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to check journal entries for %s: %w", orgID, err)
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, a := range accounts {
		debits = debits.Add(a.DebitBalance)
		credits = credits.Add(a.CreditBalance)
	}

	report := domain.IntegrityReport{
		OrganizationID:    orgID,
		CheckedAt:         s.Now(),
		AccountsChecked:   len(accounts),
		DriftedAccounts:   drifted,
		UnbalancedEntries: unbalanced,
		LedgerBalanced:    debits.Equal(credits),
	}
	if report.DriftedAccounts == nil {
		report.DriftedAccounts = []domain.AccountDrift{}
	}
	if report.UnbalancedEntries == nil {
		report.UnbalancedEntries = []domain.UnbalancedEntry{}
	}

	if report.OK() {
		s.LogDebug(ctx, "Ledger integrity check passed", slog.String("org_id", orgID), slog.Int("accounts", len(accounts)))
	} else {
		s.LogWarn(ctx, "Ledger integrity check failed",
			slog.String("org_id", orgID),
			slog.Int("drifted_accounts", len(report.DriftedAccounts)),
			slog.Int("unbalanced_entries", len(report.UnbalancedEntries)),
			slog.Bool("ledger_balanced", report.LedgerBalanced))
	}
	return &report, nil
}

// CheckAllOrganizations keeps going when one organization fails and returns the
// joined errors with the reports that did complete.
func (s *reportingService) CheckAllOrganizations(ctx context.Context) ([]domain.IntegrityReport, error) {
	orgIDs, err := s.accessRepo.ListOrganizationIDs(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations for integrity sweep")
		return nil, err
	}

	reports := make([]domain.IntegrityReport, 0, len(orgIDs))
	var errs []error
	for _, orgID := range orgIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := s.CheckLedgerIntegrity(ctx, orgID)
		if err != nil {
			s.LogError(ctx, err, "Integrity check failed", slog.String("org_id", orgID))
			errs = append(errs, err)
			continue
		}
		reports = append(reports, *report)
	}

	s.LogInfo(ctx, "Integrity sweep finished", slog.Int("organizations", len(orgIDs)), slog.Int("errors", len(errs)))
	return reports, errors.Join(errs...)
}
