package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/clock"
	filingcalc "github.com/smallbiznis/taxrail/internal/filing/calc"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	obsmetrics "github.com/smallbiznis/taxrail/internal/observability/metrics"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/taxpayment/domain"
	"github.com/smallbiznis/taxrail/pkg/taxcal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Repo        domain.Repository
	PayrollRepo payrolldomain.Repository
	FilingSvc   filingdomain.Service
	Clock       clock.Clock
	GenID       *snowflake.Node
	Log         *zap.Logger
	Metrics     *obsmetrics.EngineMetrics
}

type Service struct {
	repo        domain.Repository
	payrollRepo payrolldomain.Repository
	filingSvc   filingdomain.Service
	clock       clock.Clock
	genID       *snowflake.Node
	log         *zap.Logger
	metrics     *obsmetrics.EngineMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		repo:        p.Repo,
		payrollRepo: p.PayrollRepo,
		filingSvc:   p.FilingSvc,
		clock:       p.Clock,
		genID:       p.GenID,
		log:         p.Log.Named("taxpayment.service"),
		metrics:     p.Metrics,
	}
}

// SyncPeriod recomputes every obligation the pay date contributes to
// from approved payroll alone, so re-running it is always safe. Paid
// obligations are skipped by the repository's status guard.
func (s *Service) SyncPeriod(ctx context.Context, companyID snowflake.ID, payDate time.Time) error {
	yq := taxcal.QuarterOf(payDate)
	month := int(payDate.UTC().Month())

	if err := s.syncFederal941(ctx, companyID, yq.Year, month); err != nil {
		return err
	}
	if err := s.syncCAPitSdi(ctx, companyID, yq.Year, month); err != nil {
		return err
	}
	if err := s.syncCASuiEtt(ctx, companyID, yq.Year, yq.Quarter); err != nil {
		return err
	}
	return s.syncFederal940(ctx, companyID, yq.Year)
}

func (s *Service) syncFederal941(ctx context.Context, companyID snowflake.ID, year, month int) error {
	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.MonthStart(year, month), taxcal.MonthEnd(year, month))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	var amount int64
	ids := make([]snowflake.ID, 0, len(records))
	for i := range records {
		amount += records[i].Federal941Liability()
		ids = append(ids, records[i].ID)
	}

	err = s.repo.UpsertFederal941(ctx, &domain.Federal941Payment{
		ID:         s.genID.Generate(),
		CompanyID:  companyID,
		Year:       year,
		Month:      month,
		Amount:     amount,
		DueDate:    taxcal.MonthlyDepositDueDate(year, month),
		Status:     domain.PaymentStatusPending,
		PayrollIDs: datatypes.NewJSONSlice(ids),
	})
	if err != nil {
		return err
	}
	s.metrics.PaymentSynced(string(domain.PaymentTypeFederal941))
	return nil
}

func (s *Service) syncCAPitSdi(ctx context.Context, companyID snowflake.ID, year, month int) error {
	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.MonthStart(year, month), taxcal.MonthEnd(year, month))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	var pit, sdi int64
	ids := make([]snowflake.ID, 0, len(records))
	for i := range records {
		pit += records[i].CAPIT
		sdi += records[i].CASDI
		ids = append(ids, records[i].ID)
	}

	err = s.repo.UpsertCAPitSdi(ctx, &domain.CAPitSdiPayment{
		ID:         s.genID.Generate(),
		CompanyID:  companyID,
		Year:       year,
		Month:      month,
		PITAmount:  pit,
		SDIAmount:  sdi,
		Amount:     pit + sdi,
		DueDate:    taxcal.MonthlyDepositDueDate(year, month),
		Status:     domain.PaymentStatusPending,
		PayrollIDs: datatypes.NewJSONSlice(ids),
	})
	if err != nil {
		return err
	}
	s.metrics.PaymentSynced(string(domain.PaymentTypeCAPitSdi))
	return nil
}

func (s *Service) syncCASuiEtt(ctx context.Context, companyID snowflake.ID, year, quarter int) error {
	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.QuarterStart(year, quarter), taxcal.QuarterEnd(year, quarter))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	var sui, ett int64
	ids := make([]snowflake.ID, 0, len(records))
	for i := range records {
		sui += records[i].CASUI
		ett += records[i].CAETT
		ids = append(ids, records[i].ID)
	}

	err = s.repo.UpsertCASuiEtt(ctx, &domain.CASuiEttPayment{
		ID:         s.genID.Generate(),
		CompanyID:  companyID,
		Year:       year,
		Quarter:    quarter,
		SUIAmount:  sui,
		ETTAmount:  ett,
		Amount:     sui + ett,
		DueDate:    taxcal.QuarterlyDueDate(year, quarter),
		Status:     domain.PaymentStatusPending,
		PayrollIDs: datatypes.NewJSONSlice(ids),
	})
	if err != nil {
		return err
	}
	s.metrics.PaymentSynced(string(domain.PaymentTypeCASuiEtt))
	return nil
}

// syncFederal940 re-derives every quarter of the year. A single
// quarter cannot be synced in isolation: the deposit threshold carries
// accrued liability across quarter boundaries.
func (s *Service) syncFederal940(ctx context.Context, companyID snowflake.ID, year int) error {
	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.YearStart(year), taxcal.YearEnd(year))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	res := filingcalc.ComputeForm940(filingcalc.Form940Input{Year: year, YearPayrolls: records})
	due := filingcalc.FUTADepositsDue(res.QuarterLiabilities)

	idsByQuarter := make(map[int][]snowflake.ID)
	for i := range records {
		q := taxcal.QuarterOf(records[i].PayDate).Quarter
		idsByQuarter[q] = append(idsByQuarter[q], records[i].ID)
	}

	for q := 1; q <= 4; q++ {
		if res.QuarterLiabilities[q-1] == 0 {
			continue
		}
		err := s.repo.UpsertFederal940(ctx, &domain.Federal940Payment{
			ID:                       s.genID.Generate(),
			CompanyID:                companyID,
			Year:                     year,
			Quarter:                  q,
			Amount:                   res.QuarterLiabilities[q-1],
			DueDate:                  taxcal.QuarterlyDueDate(year, q),
			RequiresImmediatePayment: due[q-1],
			Status:                   domain.PaymentStatusPending,
			PayrollIDs:               datatypes.NewJSONSlice(idsByQuarter[q]),
		})
		if err != nil {
			return err
		}
		s.metrics.PaymentSynced(string(domain.PaymentTypeFederal940))
	}
	return nil
}

// MarkPaid settles one obligation, then refreshes the deposit lines of
// the return the obligation feeds. The refresh is best-effort: the
// payment stays settled even when the recompute fails.
func (s *Service) MarkPaid(ctx context.Context, req domain.MarkPaidRequest) error {
	paidDate := req.PaidDate
	if paidDate.IsZero() {
		paidDate = s.clock.Now()
	}

	switch req.Type {
	case domain.PaymentTypeFederal941:
		p, err := s.repo.FindFederal941ByID(ctx, req.CompanyID, req.PaymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.MarkFederal941Paid(ctx, req.CompanyID, req.PaymentID, paidDate, req.PaymentMethod, req.ConfirmationNumber); err != nil {
			return err
		}
		s.metrics.PaymentPaid(string(req.Type))
		q := taxcal.QuarterOf(taxcal.MonthStart(p.Year, p.Month)).Quarter
		s.recompute(ctx, "form941", func() error {
			return s.filingSvc.RecomputeForm941(ctx, req.CompanyID, p.Year, q)
		})
		return nil

	case domain.PaymentTypeFederal940:
		p, err := s.repo.FindFederal940ByID(ctx, req.CompanyID, req.PaymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.MarkFederal940Paid(ctx, req.CompanyID, req.PaymentID, paidDate, req.PaymentMethod, req.ConfirmationNumber); err != nil {
			return err
		}
		s.metrics.PaymentPaid(string(req.Type))
		s.recompute(ctx, "form940", func() error {
			return s.filingSvc.RecomputeForm940(ctx, req.CompanyID, p.Year)
		})
		return nil

	case domain.PaymentTypeCAPitSdi:
		p, err := s.repo.FindCAPitSdiByID(ctx, req.CompanyID, req.PaymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.MarkCAPitSdiPaid(ctx, req.CompanyID, req.PaymentID, paidDate, req.PaymentMethod, req.ConfirmationNumber); err != nil {
			return err
		}
		s.metrics.PaymentPaid(string(req.Type))
		q := taxcal.QuarterOf(taxcal.MonthStart(p.Year, p.Month)).Quarter
		s.recompute(ctx, "de9", func() error {
			return s.filingSvc.RecomputeDe9(ctx, req.CompanyID, p.Year, q)
		})
		return nil

	case domain.PaymentTypeCASuiEtt:
		p, err := s.repo.FindCASuiEttByID(ctx, req.CompanyID, req.PaymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.MarkCASuiEttPaid(ctx, req.CompanyID, req.PaymentID, paidDate, req.PaymentMethod, req.ConfirmationNumber); err != nil {
			return err
		}
		s.metrics.PaymentPaid(string(req.Type))
		s.recompute(ctx, "de9", func() error {
			return s.filingSvc.RecomputeDe9(ctx, req.CompanyID, p.Year, p.Quarter)
		})
		return nil

	default:
		return domain.ErrInvalidPaymentType
	}
}

func (s *Service) recompute(ctx context.Context, scope string, fn func() error) {
	if err := fn(); err != nil {
		s.metrics.RecomputeFailure(scope)
		s.log.Warn("filing recompute failed after payment",
			zap.String("scope", scope),
			zap.Error(err))
	}
}

func (s *Service) ListYear(ctx context.Context, companyID snowflake.ID, year int) (*domain.YearPayments, error) {
	fed941, err := s.repo.ListFederal941ByYear(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	fed940, err := s.repo.ListFederal940ByYear(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	pitSdi, err := s.repo.ListCAPitSdiByYear(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	suiEtt, err := s.repo.ListCASuiEttByYear(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	return &domain.YearPayments{
		Federal941: fed941,
		Federal940: fed940,
		CAPitSdi:   pitSdi,
		CASuiEtt:   suiEtt,
	}, nil
}
