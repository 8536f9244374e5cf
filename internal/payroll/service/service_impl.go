package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/clock"
	companydomain "github.com/smallbiznis/taxrail/internal/company/domain"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	obsmetrics "github.com/smallbiznis/taxrail/internal/observability/metrics"
	"github.com/smallbiznis/taxrail/internal/payroll/domain"
	taxpaymentdomain "github.com/smallbiznis/taxrail/internal/taxpayment/domain"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/smallbiznis/taxrail/pkg/taxcal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Repo        domain.Repository
	CompanyRepo companydomain.Repository
	FilingSvc   filingdomain.Service
	PaymentSvc  taxpaymentdomain.Service
	Clock       clock.Clock
	GenID       *snowflake.Node
	Log         *zap.Logger
	Metrics     *obsmetrics.EngineMetrics
}

type Service struct {
	repo        domain.Repository
	companyRepo companydomain.Repository
	filingSvc   filingdomain.Service
	paymentSvc  taxpaymentdomain.Service
	clock       clock.Clock
	genID       *snowflake.Node
	log         *zap.Logger
	metrics     *obsmetrics.EngineMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		filingSvc:   p.FilingSvc,
		paymentSvc:  p.PaymentSvc,
		clock:       p.Clock,
		genID:       p.GenID,
		log:         p.Log.Named("payroll.service"),
		metrics:     p.Metrics,
	}
}

// Create inserts a pending pay-period record. Overlapping periods for the
// same employee are rejected, not merged.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.PayrollRecord, error) {
	if req.CompanyID == 0 || req.EmployeeID == 0 {
		return nil, domain.ErrNotFound
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || req.PayDate.IsZero() ||
		!req.PeriodStart.Before(req.PeriodEnd) {
		return nil, domain.ErrInvalidPeriod
	}

	gross := req.RegularPay + req.OvertimePay + req.BonusPay + req.CommissionPay
	if gross <= 0 || req.RegularPay < 0 || req.OvertimePay < 0 || req.BonusPay < 0 ||
		req.CommissionPay < 0 || req.OtherDeductions < 0 {
		return nil, domain.ErrInvalidGross
	}
	if _, err := withholding.PeriodsPerYear(req.PeriodType); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrNotFound
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, req.CompanyID, req.EmployeeID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, domain.ErrPeriodOverlap
	}

	wagePlan := req.WagePlanCode
	if wagePlan == "" {
		wagePlan = "S"
	}

	rec := &domain.PayrollRecord{
		ID:                s.genID.Generate(),
		CompanyID:         req.CompanyID,
		EmployeeID:        req.EmployeeID,
		EmployeeFirstName: req.EmployeeFirstName,
		EmployeeLastName:  req.EmployeeLastName,
		EmployeeSSN:       req.EmployeeSSN,
		WagePlanCode:      wagePlan,
		PeriodStart:       req.PeriodStart.UTC(),
		PeriodEnd:         req.PeriodEnd.UTC(),
		PayDate:           req.PayDate.UTC(),
		PeriodType:        req.PeriodType,
		RegularPay:        req.RegularPay,
		OvertimePay:       req.OvertimePay,
		BonusPay:          req.BonusPay,
		CommissionPay:     req.CommissionPay,
		GrossPay:          gross,
		OtherDeductions:   req.OtherDeductions,
		ApprovalStatus:    domain.ApprovalStatusPending,
		CreatedAt:         s.clock.Now(),
		UpdatedAt:         s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, companyID, id snowflake.ID) (*domain.PayrollRecord, error) {
	rec, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Approve computes the record's taxes from its elections and the
// employee's YTD history, flips it to approved, then brings the period's
// payment obligations and filings up to date. Validation failures happen
// before any write; downstream recompute failures never undo an approval
// that already committed.
func (s *Service) Approve(ctx context.Context, req domain.ApproveRequest) (*domain.PayrollRecord, error) {
	rec, err := s.repo.FindByID(ctx, req.CompanyID, req.PayrollID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if rec.ApprovalStatus == domain.ApprovalStatusApproved {
		return nil, domain.ErrAlreadyApproved
	}

	rate, err := s.companyRepo.RateAsOf(ctx, rec.CompanyID, rec.PayDate)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, companydomain.ErrMissingTaxRates
	}

	// The pay date fixes the tax year; wage-base math needs the wages
	// already taxed in that year before this record.
	ytd, err := s.YTD(ctx, rec.CompanyID, rec.EmployeeID, rec.PayDate)
	if err != nil {
		return nil, err
	}

	result, err := withholding.Compute(withholding.Input{
		Gross:           rec.GrossPay,
		PeriodType:      rec.PeriodType,
		YTDGrossBefore:  ytd.Gross,
		Elections:       req.Elections,
		UIRate:          rate.UIRate,
		ETTSubject:      rate.ETTSubject,
		OtherDeductions: rec.OtherDeductions,
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec.FederalIncomeTax = result.Employee.FederalIncomeTax
	rec.SocialSecurity = result.Employee.SocialSecurity
	rec.Medicare = result.Employee.Medicare
	rec.CAPIT = result.Employee.CAPIT
	rec.CASDI = result.Employee.CASDI
	rec.EmployerSocialSecurity = result.Employer.SocialSecurity
	rec.EmployerMedicare = result.Employer.Medicare
	rec.FUTA = result.Employer.FUTA
	rec.CASUI = result.Employer.CASUI
	rec.CAETT = result.Employer.CAETT
	rec.NetPay = result.NetPay
	rec.ApprovalStatus = domain.ApprovalStatusApproved
	rec.ApprovedAt = &now
	rec.Elections = datatypes.NewJSONType(req.Elections)

	if err := s.repo.Approve(ctx, rec); err != nil {
		return nil, err
	}

	// Derived records are brought up to date best-effort; a failed
	// recompute self-heals on the next approval for the period.
	if err := s.paymentSvc.SyncPeriod(ctx, rec.CompanyID, rec.PayDate); err != nil {
		s.metrics.RecomputeFailure("tax_payment_sync")
		s.log.Warn("tax payment sync failed after approval",
			zap.String("payroll_id", rec.ID.String()),
			zap.Error(err))
	}

	yq := taxcal.QuarterOf(rec.PayDate)
	if err := s.filingSvc.RecomputeQuarter(ctx, rec.CompanyID, yq.Year, yq.Quarter); err != nil {
		s.metrics.RecomputeFailure("filings")
		s.log.Warn("filing recompute failed after approval",
			zap.String("payroll_id", rec.ID.String()),
			zap.Int("year", yq.Year),
			zap.Int("quarter", yq.Quarter),
			zap.Error(err))
	}

	return rec, nil
}
