package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/taxrail/internal/clock"
	companydomain "github.com/smallbiznis/taxrail/internal/company/domain"
	companyrepo "github.com/smallbiznis/taxrail/internal/company/repository"
	"github.com/smallbiznis/taxrail/internal/config"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	filingrepo "github.com/smallbiznis/taxrail/internal/filing/repository"
	filingsvc "github.com/smallbiznis/taxrail/internal/filing/service"
	obsmetrics "github.com/smallbiznis/taxrail/internal/observability/metrics"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	payrollrepo "github.com/smallbiznis/taxrail/internal/payroll/repository"
	payrollsvc "github.com/smallbiznis/taxrail/internal/payroll/service"
	taxpaymentdomain "github.com/smallbiznis/taxrail/internal/taxpayment/domain"
	taxpaymentrepo "github.com/smallbiznis/taxrail/internal/taxpayment/repository"
	taxpaymentsvc "github.com/smallbiznis/taxrail/internal/taxpayment/service"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// env wires the full engine against an in-memory database: real
// repositories, real services, fake clock.
type env struct {
	db          *gorm.DB
	clk         *clock.FakeClock
	companyRepo companydomain.Repository
	payrollRepo payrolldomain.Repository
	filingRepo  filingdomain.Repository
	paymentRepo taxpaymentdomain.Repository
	payrollSvc  payrolldomain.Service
	filingSvc   filingdomain.Service
	paymentSvc  taxpaymentdomain.Service
	genID       *snowflake.Node
}

func newEnv(t *testing.T) *env {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&companydomain.Company{},
		&companydomain.CompanyTaxRate{},
		&payrolldomain.PayrollRecord{},
		&taxpaymentdomain.Federal941Payment{},
		&taxpaymentdomain.Federal940Payment{},
		&taxpaymentdomain.CAPitSdiPayment{},
		&taxpaymentdomain.CASuiEttPayment{},
		&filingdomain.Form941Filing{},
		&filingdomain.Form940Filing{},
		&filingdomain.De9Filing{},
		&filingdomain.De9cFiling{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 1, 17, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	metrics := obsmetrics.NewEngineMetrics(prometheus.NewRegistry())

	e := &env{
		db:          conn,
		clk:         clk,
		companyRepo: companyrepo.NewRepository(conn),
		payrollRepo: payrollrepo.NewRepository(conn),
		filingRepo:  filingrepo.NewRepository(conn),
		paymentRepo: taxpaymentrepo.NewRepository(conn),
		genID:       node,
	}
	e.filingSvc = filingsvc.NewService(filingsvc.Params{
		Repo:        e.filingRepo,
		PayrollRepo: e.payrollRepo,
		CompanyRepo: e.companyRepo,
		PaymentRepo: e.paymentRepo,
		Config:      config.Config{},
		Clock:       clk,
		GenID:       node,
		Log:         log,
		Metrics:     metrics,
	})
	e.paymentSvc = taxpaymentsvc.NewService(taxpaymentsvc.Params{
		Repo:        e.paymentRepo,
		PayrollRepo: e.payrollRepo,
		FilingSvc:   e.filingSvc,
		Clock:       clk,
		GenID:       node,
		Log:         log,
		Metrics:     metrics,
	})
	e.payrollSvc = payrollsvc.NewService(payrollsvc.Params{
		Repo:        e.payrollRepo,
		CompanyRepo: e.companyRepo,
		FilingSvc:   e.filingSvc,
		PaymentSvc:  e.paymentSvc,
		Clock:       clk,
		GenID:       node,
		Log:         log,
		Metrics:     metrics,
	})
	return e
}

func (e *env) seedCompany(t *testing.T) *companydomain.Company {
	t.Helper()
	ctx := context.Background()
	company := &companydomain.Company{
		ID:           e.genID.Generate(),
		Name:         "Golden Gate Coffee LLC",
		EIN:          "94-1234567",
		CAEDDNumber:  "123-4567-8",
		AddressLine1: "815 Howard St",
		City:         "San Francisco",
		State:        "CA",
		Zip:          "94103",
	}
	require.NoError(t, e.companyRepo.Create(ctx, company))
	require.NoError(t, e.companyRepo.AddTaxRate(ctx, &companydomain.CompanyTaxRate{
		ID:            e.genID.Generate(),
		CompanyID:     company.ID,
		UIRate:        0.034,
		ETTSubject:    true,
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	return company
}

func (e *env) createPayroll(t *testing.T, companyID snowflake.ID, employee int64, payDate time.Time, gross int64) *payrolldomain.PayrollRecord {
	t.Helper()
	rec, err := e.payrollSvc.Create(context.Background(), payrolldomain.CreateRequest{
		CompanyID:         companyID,
		EmployeeID:        snowflake.ID(employee),
		EmployeeFirstName: "Alex",
		EmployeeLastName:  "Rivera",
		EmployeeSSN:       "123456789",
		PeriodStart:       payDate.AddDate(0, 0, -14),
		PeriodEnd:         payDate.AddDate(0, 0, -1),
		PayDate:           payDate,
		PeriodType:        withholding.PeriodBiweekly,
		RegularPay:        gross,
	})
	require.NoError(t, err)
	return rec
}

func singleElections() withholding.ElectionSnapshot {
	return withholding.ElectionSnapshot{
		EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		W4:            &withholding.W4Elections{FilingStatus: withholding.FilingStatusSingle},
		DE4:           &withholding.DE4Elections{FilingStatus: withholding.FilingStatusSingle, Allowances: 1},
	}
}

func (e *env) approve(t *testing.T, companyID, payrollID snowflake.ID) *payrolldomain.PayrollRecord {
	t.Helper()
	rec, err := e.payrollSvc.Approve(context.Background(), payrolldomain.ApproveRequest{
		CompanyID: companyID,
		PayrollID: payrollID,
		Elections: singleElections(),
	})
	require.NoError(t, err)
	return rec
}

func TestApprovalDrivesPaymentsAndFilings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	company := e.seedCompany(t)

	payDate := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	created := e.createPayroll(t, company.ID, 100, payDate, 2_000_00)
	rec := e.approve(t, company.ID, created.ID)

	assert.Equal(t, int64(201_29), rec.FederalIncomeTax)
	assert.Equal(t, int64(124_00), rec.SocialSecurity)
	assert.Equal(t, int64(29_00), rec.Medicare)
	assert.Equal(t, int64(51_45), rec.CAPIT)
	assert.Equal(t, int64(24_00), rec.CASDI)
	assert.Equal(t, int64(12_00), rec.FUTA)
	assert.Equal(t, int64(68_00), rec.CASUI)
	assert.Equal(t, int64(2_00), rec.CAETT)
	assert.Equal(t, int64(1_570_26), rec.NetPay)

	// One 941 deposit obligation for January.
	fed941, err := e.paymentRepo.FindFederal941(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	require.NotNil(t, fed941)
	assert.Equal(t, rec.Federal941Liability(), fed941.Amount)
	assert.Equal(t, taxpaymentdomain.PaymentStatusPending, fed941.Status)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), fed941.DueDate.UTC())

	pitSdi, err := e.paymentRepo.FindCAPitSdi(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	require.NotNil(t, pitSdi)
	assert.Equal(t, int64(75_45), pitSdi.Amount)

	suiEtt, err := e.paymentRepo.FindCASuiEtt(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	require.NotNil(t, suiEtt)
	assert.Equal(t, int64(70_00), suiEtt.Amount)

	fed940, err := e.paymentRepo.FindFederal940(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	require.NotNil(t, fed940)
	assert.Equal(t, int64(12_00), fed940.Amount)
	assert.False(t, fed940.RequiresImmediatePayment)

	// Filings were computed in the same pass.
	form941, err := e.filingSvc.GetForm941(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, rec.Federal941Liability(), form941.TotalTax)
	assert.Equal(t, form941.TotalTax, form941.Month1Liability)
	assert.Equal(t, filingdomain.FilingStatusComputed, form941.Status)
	assert.Equal(t, company.EIN, form941.EIN)

	de9, err := e.filingSvc.GetDe9(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(68_00), de9.UIContributions)
	assert.Equal(t, int64(2_00), de9.ETTContributions)
	assert.Equal(t, int64(68_00)+int64(2_00)+int64(24_00)+int64(51_45), de9.Subtotal)

	de9c, err := e.filingSvc.GetDe9c(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	require.Len(t, de9c.EmployeeRows.Data(), 1)
	assert.Equal(t, "123-45-6789", de9c.EmployeeRows.Data()[0].SSN)
	assert.Equal(t, 1, de9c.Month1Employees)

	form940, err := e.filingSvc.GetForm940(ctx, company.ID, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_00), form940.FUTATaxableWages)
	assert.Equal(t, int64(12_00), form940.FUTALiability)

	// Approving the same record again is rejected.
	_, err = e.payrollSvc.Approve(ctx, payrolldomain.ApproveRequest{
		CompanyID: company.ID,
		PayrollID: created.ID,
		Elections: singleElections(),
	})
	assert.ErrorIs(t, err, payrolldomain.ErrAlreadyApproved)
}

func TestPaidPaymentIsImmutableUnderSync(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	company := e.seedCompany(t)

	first := e.createPayroll(t, company.ID, 100, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 2_000_00)
	e.approve(t, company.ID, first.ID)

	fed941, err := e.paymentRepo.FindFederal941(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	require.NotNil(t, fed941)
	paidAmount := fed941.Amount

	require.NoError(t, e.paymentSvc.MarkPaid(ctx, taxpaymentdomain.MarkPaidRequest{
		CompanyID:          company.ID,
		Type:               taxpaymentdomain.PaymentTypeFederal941,
		PaymentID:          fed941.ID,
		PaidDate:           time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		PaymentMethod:      "eftps",
		ConfirmationNumber: "EFT-20250210-001",
	}))

	// A second approval in the same month resyncs the period; the paid
	// obligation must keep its original amount while its contributing
	// payroll list keeps growing.
	second := e.createPayroll(t, company.ID, 101, time.Date(2025, 1, 24, 0, 0, 0, 0, time.UTC), 2_000_00)
	e.approve(t, company.ID, second.ID)

	refreshed, err := e.paymentRepo.FindFederal941(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, taxpaymentdomain.PaymentStatusPaid, refreshed.Status)
	assert.Equal(t, paidAmount, refreshed.Amount)
	assert.Len(t, refreshed.PayrollIDs, 2)
	require.NotNil(t, refreshed.PaidDate)

	// The 941 keeps refreshing and now credits the paid deposit.
	form941, err := e.filingSvc.GetForm941(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, paidAmount, form941.TotalDeposits)
	assert.Equal(t, paidAmount, form941.Month1Deposits)
	assert.Equal(t, 2, form941.NumEmployees)

	err = e.paymentSvc.MarkPaid(ctx, taxpaymentdomain.MarkPaidRequest{
		CompanyID: company.ID,
		Type:      taxpaymentdomain.PaymentTypeFederal941,
		PaymentID: fed941.ID,
	})
	assert.ErrorIs(t, err, taxpaymentdomain.ErrAlreadyPaid)
}

func TestMarkFiledCascadesToPayments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	company := e.seedCompany(t)

	rec := e.createPayroll(t, company.ID, 100, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC), 2_000_00)
	e.approve(t, company.ID, rec.ID)

	form941, err := e.filingSvc.GetForm941(ctx, company.ID, 2025, 1)
	require.NoError(t, err)

	require.NoError(t, e.filingSvc.MarkFiled(ctx, filingdomain.MarkFiledRequest{
		CompanyID: company.ID,
		Type:      filingdomain.FilingTypeForm941,
		FilingID:  form941.ID,
		FiledBy:   "cpa@example.com",
	}))

	filed, err := e.filingSvc.GetForm941(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, filingdomain.FilingStatusFiled, filed.Status)
	require.NotNil(t, filed.FiledAt)
	assert.Equal(t, "cpa@example.com", filed.FiledBy)

	// Filing the 941 settles the quarter's pending federal deposits and
	// the refreshed return credits them on its deposit lines.
	fed941, err := e.paymentRepo.FindFederal941(ctx, company.ID, 2025, 2)
	require.NoError(t, err)
	assert.Equal(t, taxpaymentdomain.PaymentStatusPaid, fed941.Status)
	assert.Equal(t, fed941.Amount, filed.TotalDeposits)
	assert.Equal(t, fed941.Amount, filed.Month2Deposits)

	// The California streams are untouched by a federal filing.
	suiEtt, err := e.paymentRepo.FindCASuiEtt(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, taxpaymentdomain.PaymentStatusPending, suiEtt.Status)

	err = e.filingSvc.MarkFiled(ctx, filingdomain.MarkFiledRequest{
		CompanyID: company.ID,
		Type:      filingdomain.FilingTypeForm941,
		FilingID:  form941.ID,
	})
	assert.ErrorIs(t, err, filingdomain.ErrAlreadyFiled)
}

func TestFiledReturnKeepsMarkersThroughRecompute(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	company := e.seedCompany(t)

	rec := e.createPayroll(t, company.ID, 100, time.Date(2025, 4, 11, 0, 0, 0, 0, time.UTC), 2_000_00)
	e.approve(t, company.ID, rec.ID)

	form941, err := e.filingSvc.GetForm941(ctx, company.ID, 2025, 2)
	require.NoError(t, err)
	require.NoError(t, e.filingSvc.MarkFiled(ctx, filingdomain.MarkFiledRequest{
		CompanyID: company.ID,
		Type:      filingdomain.FilingTypeForm941,
		FilingID:  form941.ID,
		FiledBy:   "cpa@example.com",
	}))
	originalTax := form941.TotalTax

	// A late approval lands in the already-filed quarter: the lines
	// refresh, the filed markers do not.
	late := e.createPayroll(t, company.ID, 101, time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC), 2_000_00)
	e.approve(t, company.ID, late.ID)

	refreshed, err := e.filingSvc.GetForm941(ctx, company.ID, 2025, 2)
	require.NoError(t, err)
	assert.Equal(t, filingdomain.FilingStatusFiled, refreshed.Status)
	assert.Equal(t, "cpa@example.com", refreshed.FiledBy)
	require.NotNil(t, refreshed.FiledAt)
	assert.Greater(t, refreshed.TotalTax, originalTax)
	assert.Equal(t, form941.ID, refreshed.ID)
}

func TestDe9FilingSettlesCaliforniaStreams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	company := e.seedCompany(t)

	rec := e.createPayroll(t, company.ID, 100, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), 2_000_00)
	e.approve(t, company.ID, rec.ID)

	de9, err := e.filingSvc.GetDe9(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	require.NoError(t, e.filingSvc.MarkFiled(ctx, filingdomain.MarkFiledRequest{
		CompanyID: company.ID,
		Type:      filingdomain.FilingTypeDe9,
		FilingID:  de9.ID,
	}))

	pitSdi, err := e.paymentRepo.FindCAPitSdi(ctx, company.ID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, taxpaymentdomain.PaymentStatusPaid, pitSdi.Status)

	suiEtt, err := e.paymentRepo.FindCASuiEtt(ctx, company.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, taxpaymentdomain.PaymentStatusPaid, suiEtt.Status)

	// Federal obligations stay pending.
	fed941, err := e.paymentRepo.FindFederal941(ctx, company.ID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, taxpaymentdomain.PaymentStatusPending, fed941.Status)
}

func TestMarkPaidValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	company := e.seedCompany(t)

	err := e.paymentSvc.MarkPaid(ctx, taxpaymentdomain.MarkPaidRequest{
		CompanyID: company.ID,
		Type:      "cash_under_mattress",
		PaymentID: e.genID.Generate(),
	})
	assert.ErrorIs(t, err, taxpaymentdomain.ErrInvalidPaymentType)

	err = e.paymentSvc.MarkPaid(ctx, taxpaymentdomain.MarkPaidRequest{
		CompanyID: company.ID,
		Type:      taxpaymentdomain.PaymentTypeFederal941,
		PaymentID: e.genID.Generate(),
	})
	assert.ErrorIs(t, err, taxpaymentdomain.ErrNotFound)
}

func TestOverlappingPeriodRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	company := e.seedCompany(t)

	payDate := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	e.createPayroll(t, company.ID, 100, payDate, 2_000_00)

	_, err := e.payrollSvc.Create(ctx, payrolldomain.CreateRequest{
		CompanyID:   company.ID,
		EmployeeID:  snowflake.ID(100),
		PeriodStart: payDate.AddDate(0, 0, -7),
		PeriodEnd:   payDate.AddDate(0, 0, 7),
		PayDate:     payDate.AddDate(0, 0, 7),
		PeriodType:  withholding.PeriodBiweekly,
		RegularPay:  2_000_00,
	})
	assert.ErrorIs(t, err, payrolldomain.ErrPeriodOverlap)
}
