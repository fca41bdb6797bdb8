package service

import (
	"context"
	"time"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// ReportService computes read-only aggregates. Repeating a call without
// intervening writes yields identical results.
type ReportService interface {
	GeneralSummary(ctx context.Context) (*model.GeneralSummary, error)
	MonthlySummary(ctx context.Context, year, month int) (*model.MonthlySummary, error)
	PaymentsByPeriod(ctx context.Context, year, month int) ([]model.Payment, error)
	// OverduePayments lists payments not in the paid state whose period is before today.
	OverduePayments(ctx context.Context) ([]model.Payment, error)
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	ActiveContracts(ctx context.Context) ([]model.Contract, error)
}

type reportService struct {
	reports   repository.ReportRepository
	payments  repository.PaymentRepository
	contracts repository.ContractRepository
	now       func() time.Time
}

// NewReportService constructs a new ReportService.
func NewReportService(reports repository.ReportRepository, payments repository.PaymentRepository, contracts repository.ContractRepository) ReportService {
	return &reportService{reports: reports, payments: payments, contracts: contracts, now: time.Now}
}

func (s *reportService) GeneralSummary(ctx context.Context) (*model.GeneralSummary, error) {
	expected, paid, err := s.reports.SumAmounts(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return &model.GeneralSummary{
		TotalExpected: expected,
		TotalPaid:     paid,
		Pending:       expected.Sub(paid),
	}, nil
}

func (s *reportService) MonthlySummary(ctx context.Context, year, month int) (*model.MonthlySummary, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	expected, paid, err := s.reports.SumAmounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &model.MonthlySummary{
		Year:          year,
		Month:         month,
		TotalExpected: expected,
		TotalPaid:     paid,
		Difference:    expected.Sub(paid),
	}, nil
}

func (s *reportService) PaymentsByPeriod(ctx context.Context, year, month int) ([]model.Payment, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	return s.payments.List(ctx, repository.PaymentFilter{PeriodFrom: from, PeriodTo: to})
}

func (s *reportService) OverduePayments(ctx context.Context) ([]model.Payment, error) {
	return s.payments.List(ctx, repository.PaymentFilter{
		ExcludeState: model.StatePaid,
		PeriodTo:     today(s.now()),
	})
}

func (s *reportService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	return s.reports.Dashboard(ctx, model.StatePending, model.StateOverdue)
}

func (s *reportService) ActiveContracts(ctx context.Context) ([]model.Contract, error) {
	return s.contracts.List(ctx, repository.ContractQuery{Scope: repository.ScopeActive})
}

// monthRange returns [first day of month, first day of next month).
func monthRange(year, month int) (time.Time, time.Time, error) {
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, invalid("year", "must be between 1 and 9999")
	}
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, invalid("month", "must be between 1 and 12")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// today truncates t to its calendar date.
func today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
