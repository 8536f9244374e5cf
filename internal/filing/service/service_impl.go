package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/clock"
	companydomain "github.com/smallbiznis/taxrail/internal/company/domain"
	"github.com/smallbiznis/taxrail/internal/config"
	"github.com/smallbiznis/taxrail/internal/filing/calc"
	"github.com/smallbiznis/taxrail/internal/filing/domain"
	obsmetrics "github.com/smallbiznis/taxrail/internal/observability/metrics"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	taxpaymentdomain "github.com/smallbiznis/taxrail/internal/taxpayment/domain"
	"github.com/smallbiznis/taxrail/pkg/taxcal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Repo        domain.Repository
	PayrollRepo payrolldomain.Repository
	CompanyRepo companydomain.Repository
	PaymentRepo taxpaymentdomain.Repository
	Config      config.Config
	Clock       clock.Clock
	GenID       *snowflake.Node
	Log         *zap.Logger
	Metrics     *obsmetrics.EngineMetrics
}

type Service struct {
	repo        domain.Repository
	payrollRepo payrolldomain.Repository
	companyRepo companydomain.Repository
	paymentRepo taxpaymentdomain.Repository
	cfg         config.Config
	clock       clock.Clock
	genID       *snowflake.Node
	log         *zap.Logger
	metrics     *obsmetrics.EngineMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		repo:        p.Repo,
		payrollRepo: p.PayrollRepo,
		companyRepo: p.CompanyRepo,
		paymentRepo: p.PaymentRepo,
		cfg:         p.Config,
		clock:       p.Clock,
		genID:       p.GenID,
		log:         p.Log.Named("filing.service"),
		metrics:     p.Metrics,
	}
}

// RecomputeQuarter refreshes every return the quarter touches. Each
// recompute derives the full return from approved payroll, so the order
// does not matter and reruns are idempotent.
func (s *Service) RecomputeQuarter(ctx context.Context, companyID snowflake.ID, year, quarter int) error {
	if err := s.RecomputeForm941(ctx, companyID, year, quarter); err != nil {
		return err
	}
	if err := s.RecomputeDe9(ctx, companyID, year, quarter); err != nil {
		return err
	}
	if err := s.recomputeDe9c(ctx, companyID, year, quarter); err != nil {
		return err
	}
	return s.RecomputeForm940(ctx, companyID, year)
}

func (s *Service) RecomputeForm941(ctx context.Context, companyID snowflake.ID, year, quarter int) error {
	if quarter < 1 || quarter > 4 {
		return domain.ErrInvalidPeriod
	}
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return companydomain.ErrNotFound
	}

	// Wage-base replay needs the year's earlier quarters too.
	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.YearStart(year), taxcal.QuarterEnd(year, quarter))
	if err != nil {
		return err
	}

	deposits := make(map[int]int64)
	payments, err := s.paymentRepo.ListFederal941ByYear(ctx, companyID, year)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].Status == taxpaymentdomain.PaymentStatusPaid {
			deposits[payments[i].Month] += payments[i].Amount
		}
	}

	lookback, err := s.lookbackLiability(ctx, companyID, year)
	if err != nil {
		return err
	}

	res := calc.ComputeForm941(calc.Form941Input{
		Year:              year,
		Quarter:           quarter,
		YearPayrolls:      records,
		LookbackLiability: lookback,
		DepositsByMonth:   deposits,
	})
	if len(res.PayrollIDs) == 0 {
		if existing, err := s.repo.FindForm941(ctx, companyID, year, quarter); err != nil || existing == nil {
			return err
		}
	}

	return s.repo.UpsertForm941(ctx, &domain.Form941Filing{
		ID:                       s.genID.Generate(),
		CompanyID:                companyID,
		Year:                     year,
		Quarter:                  quarter,
		CompanyName:              company.Name,
		EIN:                      company.EIN,
		AddressLine1:             company.AddressLine1,
		City:                     company.City,
		State:                    company.State,
		Zip:                      company.Zip,
		NumEmployees:             res.NumEmployees,
		TotalWages:               res.TotalWages,
		FederalIncomeTaxWithheld: res.FederalIncomeTaxWithheld,
		SocialSecurityWages:      res.SocialSecurityWages,
		SocialSecurityTax:        res.SocialSecurityTax,
		MedicareWages:            res.MedicareWages,
		MedicareTax:              res.MedicareTax,
		AdditionalMedicareWages:  res.AdditionalMedicareWages,
		AdditionalMedicareTax:    res.AdditionalMedicareTax,
		FractionsOfCents:         res.FractionsOfCents,
		TotalTax:                 res.TotalTax,
		DepositSchedule:          res.DepositSchedule,
		Month1Liability:          res.MonthLiabilities[0],
		Month2Liability:          res.MonthLiabilities[1],
		Month3Liability:          res.MonthLiabilities[2],
		SemiweeklySchedule:       datatypes.NewJSONType(res.SemiweeklySchedule),
		Month1Deposits:           res.MonthDeposits[0],
		Month2Deposits:           res.MonthDeposits[1],
		Month3Deposits:           res.MonthDeposits[2],
		TotalDeposits:            res.TotalDeposits,
		BalanceDue:               res.BalanceDue,
		Overpayment:              res.Overpayment,
		Status:                   domain.FilingStatusComputed,
		PayrollIDs:               datatypes.NewJSONSlice(res.PayrollIDs),
		ComputedAt:               s.clock.Now(),
	})
}

// lookbackLiability totals 941 liability for the four quarters ending
// June 30 of the prior year, which decides the deposit schedule.
func (s *Service) lookbackLiability(ctx context.Context, companyID snowflake.ID, year int) (int64, error) {
	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.MonthStart(year-2, 7), taxcal.MonthStart(year-1, 7))
	if err != nil {
		return 0, err
	}
	var total int64
	for i := range records {
		total += records[i].Federal941Liability()
	}
	return total, nil
}

func (s *Service) RecomputeForm940(ctx context.Context, companyID snowflake.ID, year int) error {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return companydomain.ErrNotFound
	}

	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.YearStart(year), taxcal.YearEnd(year))
	if err != nil {
		return err
	}

	deposits := make(map[int]int64)
	payments, err := s.paymentRepo.ListFederal940ByYear(ctx, companyID, year)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].Status == taxpaymentdomain.PaymentStatusPaid {
			deposits[payments[i].Quarter] += payments[i].Amount
		}
	}

	res := calc.ComputeForm940(calc.Form940Input{
		Year:                year,
		YearPayrolls:        records,
		CreditReductionRate: s.cfg.CreditReductionRate,
		DepositsByQuarter:   deposits,
	})
	if len(res.PayrollIDs) == 0 {
		if existing, err := s.repo.FindForm940(ctx, companyID, year); err != nil || existing == nil {
			return err
		}
	}

	return s.repo.UpsertForm940(ctx, &domain.Form940Filing{
		ID:                        s.genID.Generate(),
		CompanyID:                 companyID,
		Year:                      year,
		CompanyName:               company.Name,
		EIN:                       company.EIN,
		AddressLine1:              company.AddressLine1,
		City:                      company.City,
		State:                     company.State,
		Zip:                       company.Zip,
		TotalWages:                res.TotalWages,
		ExemptWages:               res.ExemptWages,
		ExcessWages:               res.ExcessWages,
		FUTATaxableWages:          res.FUTATaxableWages,
		FUTALiability:             res.FUTALiability,
		CreditReduction:           res.CreditReduction,
		TotalTax:                  res.TotalTax,
		Quarter1Liability:         res.QuarterLiabilities[0],
		Quarter2Liability:         res.QuarterLiabilities[1],
		Quarter3Liability:         res.QuarterLiabilities[2],
		Quarter4Liability:         res.QuarterLiabilities[3],
		RequiresQuarterlyDeposits: res.RequiresQuarterlyDeposits,
		TotalDeposits:             res.TotalDeposits,
		BalanceDue:                res.BalanceDue,
		Overpayment:               res.Overpayment,
		Status:                    domain.FilingStatusComputed,
		PayrollIDs:                datatypes.NewJSONSlice(res.PayrollIDs),
		ComputedAt:                s.clock.Now(),
	})
}

func (s *Service) RecomputeDe9(ctx context.Context, companyID snowflake.ID, year, quarter int) error {
	if quarter < 1 || quarter > 4 {
		return domain.ErrInvalidPeriod
	}
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return companydomain.ErrNotFound
	}
	rate, err := s.companyRepo.RateAsOf(ctx, companyID, taxcal.QuarterEnd(year, quarter))
	if err != nil {
		return err
	}
	if rate == nil {
		return companydomain.ErrMissingTaxRates
	}

	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.YearStart(year), taxcal.QuarterEnd(year, quarter))
	if err != nil {
		return err
	}

	deposits, err := s.de9Deposits(ctx, companyID, year, quarter)
	if err != nil {
		return err
	}

	res := calc.ComputeDe9(calc.De9Input{
		Year:         year,
		Quarter:      quarter,
		YearPayrolls: records,
		UIRate:       rate.UIRate,
		ETTSubject:   rate.ETTSubject,
		DepositsPaid: deposits,
	})
	if len(res.PayrollIDs) == 0 {
		if existing, err := s.repo.FindDe9(ctx, companyID, year, quarter); err != nil || existing == nil {
			return err
		}
	}

	return s.repo.UpsertDe9(ctx, &domain.De9Filing{
		ID:                s.genID.Generate(),
		CompanyID:         companyID,
		Year:              year,
		Quarter:           quarter,
		CompanyName:       company.Name,
		CAEDDNumber:       company.CAEDDNumber,
		TotalSubjectWages: res.TotalSubjectWages,
		UITaxableWages:    res.UITaxableWages,
		UIRate:            rate.UIRate,
		UIContributions:   res.UIContributions,
		ETTContributions:  res.ETTContributions,
		SDITaxableWages:   res.SDITaxableWages,
		SDIWithheld:       res.SDIWithheld,
		PITWithheld:       res.PITWithheld,
		Subtotal:          res.Subtotal,
		TotalDeposits:     res.TotalDeposits,
		BalanceDue:        res.BalanceDue,
		Overpayment:       res.Overpayment,
		Status:            domain.FilingStatusComputed,
		PayrollIDs:        datatypes.NewJSONSlice(res.PayrollIDs),
		ComputedAt:        s.clock.Now(),
	})
}

// de9Deposits totals paid PIT/SDI remittances for the quarter's months
// plus the quarter's paid UI/ETT contribution.
func (s *Service) de9Deposits(ctx context.Context, companyID snowflake.ID, year, quarter int) (int64, error) {
	var total int64

	monthly, err := s.paymentRepo.ListCAPitSdiByYear(ctx, companyID, year)
	if err != nil {
		return 0, err
	}
	for i := range monthly {
		if monthly[i].Status != taxpaymentdomain.PaymentStatusPaid {
			continue
		}
		if taxcal.MonthPositionInQuarter(monthly[i].Month, quarter) > 0 {
			total += monthly[i].Amount
		}
	}

	quarterly, err := s.paymentRepo.ListCASuiEttByYear(ctx, companyID, year)
	if err != nil {
		return 0, err
	}
	for i := range quarterly {
		if quarterly[i].Status == taxpaymentdomain.PaymentStatusPaid && quarterly[i].Quarter == quarter {
			total += quarterly[i].Amount
		}
	}
	return total, nil
}

func (s *Service) recomputeDe9c(ctx context.Context, companyID snowflake.ID, year, quarter int) error {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return companydomain.ErrNotFound
	}

	records, err := s.payrollRepo.ListApprovedByPayDate(ctx, companyID,
		taxcal.QuarterStart(year, quarter), taxcal.QuarterEnd(year, quarter))
	if err != nil {
		return err
	}

	res := calc.ComputeDe9c(calc.De9cInput{Year: year, Quarter: quarter, Payrolls: records})
	if len(res.PayrollIDs) == 0 {
		if existing, err := s.repo.FindDe9c(ctx, companyID, year, quarter); err != nil || existing == nil {
			return err
		}
	}

	return s.repo.UpsertDe9c(ctx, &domain.De9cFiling{
		ID:                s.genID.Generate(),
		CompanyID:         companyID,
		Year:              year,
		Quarter:           quarter,
		CompanyName:       company.Name,
		CAEDDNumber:       company.CAEDDNumber,
		Month1Employees:   res.MonthEmployees[0],
		Month2Employees:   res.MonthEmployees[1],
		Month3Employees:   res.MonthEmployees[2],
		EmployeeRows:      datatypes.NewJSONType(res.Rows),
		TotalSubjectWages: res.TotalSubjectWages,
		TotalPITWages:     res.TotalPITWages,
		TotalPITWithheld:  res.TotalPITWithheld,
		Status:            domain.FilingStatusComputed,
		PayrollIDs:        datatypes.NewJSONSlice(res.PayrollIDs),
		ComputedAt:        s.clock.Now(),
	})
}

func (s *Service) GetQuarter(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.QuarterFilings, error) {
	if quarter < 1 || quarter > 4 {
		return nil, domain.ErrInvalidPeriod
	}
	form941, err := s.repo.FindForm941(ctx, companyID, year, quarter)
	if err != nil {
		return nil, err
	}
	form940, err := s.repo.FindForm940(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	de9, err := s.repo.FindDe9(ctx, companyID, year, quarter)
	if err != nil {
		return nil, err
	}
	de9c, err := s.repo.FindDe9c(ctx, companyID, year, quarter)
	if err != nil {
		return nil, err
	}
	return &domain.QuarterFilings{Form941: form941, Form940: form940, De9: de9, De9c: de9c}, nil
}

func (s *Service) GetForm941(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.Form941Filing, error) {
	f, err := s.repo.FindForm941(ctx, companyID, year, quarter)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (s *Service) GetForm940(ctx context.Context, companyID snowflake.ID, year int) (*domain.Form940Filing, error) {
	f, err := s.repo.FindForm940(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (s *Service) GetDe9(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.De9Filing, error) {
	f, err := s.repo.FindDe9(ctx, companyID, year, quarter)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (s *Service) GetDe9c(ctx context.Context, companyID snowflake.ID, year, quarter int) (*domain.De9cFiling, error) {
	f, err := s.repo.FindDe9c(ctx, companyID, year, quarter)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// MarkFiled flips one return to filed, then settles the pending payment
// obligations the filed return covers. Settling is best-effort: the
// filing stays filed even when the cascade fails, and a later payment
// sync will find the obligations still pending.
func (s *Service) MarkFiled(ctx context.Context, req domain.MarkFiledRequest) error {
	now := s.clock.Now()

	switch req.Type {
	case domain.FilingTypeForm941:
		f, err := s.repo.FindForm941ByID(ctx, req.CompanyID, req.FilingID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.MarkForm941Filed(ctx, req.CompanyID, req.FilingID, now, req.FiledBy); err != nil {
			return err
		}
		s.metrics.FilingFiled(string(req.Type))
		months := taxcal.QuarterMonths(f.Quarter)
		s.settle("federal_941", func() error {
			return s.paymentRepo.SettleFederal941Months(ctx, req.CompanyID, f.Year, months[:], now)
		})
		s.refresh("form941", func() error {
			return s.RecomputeForm941(ctx, req.CompanyID, f.Year, f.Quarter)
		})
		return nil

	case domain.FilingTypeForm940:
		f, err := s.repo.FindForm940ByID(ctx, req.CompanyID, req.FilingID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.MarkForm940Filed(ctx, req.CompanyID, req.FilingID, now, req.FiledBy); err != nil {
			return err
		}
		s.metrics.FilingFiled(string(req.Type))
		s.settle("federal_940", func() error {
			return s.paymentRepo.SettleFederal940Year(ctx, req.CompanyID, f.Year, now)
		})
		s.refresh("form940", func() error {
			return s.RecomputeForm940(ctx, req.CompanyID, f.Year)
		})
		return nil

	case domain.FilingTypeDe9:
		f, err := s.repo.FindDe9ByID(ctx, req.CompanyID, req.FilingID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.MarkDe9Filed(ctx, req.CompanyID, req.FilingID, now, req.FiledBy); err != nil {
			return err
		}
		s.metrics.FilingFiled(string(req.Type))
		months := taxcal.QuarterMonths(f.Quarter)
		s.settle("ca_pit_sdi", func() error {
			return s.paymentRepo.SettleCAPitSdiMonths(ctx, req.CompanyID, f.Year, months[:], now)
		})
		s.settle("ca_sui_ett", func() error {
			return s.paymentRepo.SettleCASuiEttQuarter(ctx, req.CompanyID, f.Year, f.Quarter, now)
		})
		s.refresh("de9", func() error {
			return s.RecomputeDe9(ctx, req.CompanyID, f.Year, f.Quarter)
		})
		return nil

	case domain.FilingTypeDe9c:
		f, err := s.repo.FindDe9cByID(ctx, req.CompanyID, req.FilingID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNotFound
		}
		// The wage detail has no payment obligations to settle.
		if err := s.repo.MarkDe9cFiled(ctx, req.CompanyID, req.FilingID, now, req.FiledBy); err != nil {
			return err
		}
		s.metrics.FilingFiled(string(req.Type))
		return nil

	default:
		return domain.ErrInvalidFilingType
	}
}

func (s *Service) settle(stream string, fn func() error) {
	if err := fn(); err != nil {
		s.metrics.RecomputeFailure("settle_" + stream)
		s.log.Warn("payment settlement failed after filing",
			zap.String("stream", stream),
			zap.Error(err))
	}
}

// refresh re-derives the filed return so its deposit lines credit the
// payments the cascade just settled. The filed markers survive the
// upsert; a failure here self-heals on the next approval.
func (s *Service) refresh(scope string, fn func() error) {
	if err := fn(); err != nil {
		s.metrics.RecomputeFailure(scope)
		s.log.Warn("filing refresh failed after settlement",
			zap.String("scope", scope),
			zap.Error(err))
	}
}
