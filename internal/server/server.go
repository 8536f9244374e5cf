// Package server exposes the tax engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/taxrail/internal/clock"
	"github.com/smallbiznis/taxrail/internal/company"
	companydomain "github.com/smallbiznis/taxrail/internal/company/domain"
	"github.com/smallbiznis/taxrail/internal/config"
	"github.com/smallbiznis/taxrail/internal/filing"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	"github.com/smallbiznis/taxrail/internal/payroll"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/taxpayment"
	taxpaymentdomain "github.com/smallbiznis/taxrail/internal/taxpayment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	company.Module,
	payroll.Module,
	filing.Module,
	taxpayment.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	return NewEngine(cfg, log, gatherer)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	genID       *snowflake.Node
	clock       clock.Clock
	companyRepo companydomain.Repository
	payrollSvc  payrolldomain.Service
	filingSvc   filingdomain.Service
	paymentSvc  taxpaymentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	GenID       *snowflake.Node
	Clock       clock.Clock
	CompanyRepo companydomain.Repository
	PayrollSvc  payrolldomain.Service
	FilingSvc   filingdomain.Service
	PaymentSvc  taxpaymentdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		genID:       p.GenID,
		clock:       p.Clock,
		companyRepo: p.CompanyRepo,
		payrollSvc:  p.PayrollSvc,
		filingSvc:   p.FilingSvc,
		paymentSvc:  p.PaymentSvc,
	}
	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Companies --------
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:companyId", s.GetCompany)
	api.POST("/companies/:companyId/tax-rates", s.AddCompanyTaxRate)

	// -------- Payrolls --------
	api.POST("/companies/:companyId/payrolls", s.CreatePayroll)
	api.GET("/companies/:companyId/payrolls/:id", s.GetPayroll)
	api.POST("/companies/:companyId/payrolls/:id/approve", s.ApprovePayroll)
	api.GET("/companies/:companyId/employees/:employeeId/ytd", s.GetEmployeeYTD)

	// -------- Filings --------
	api.GET("/companies/:companyId/filings", s.GetQuarterFilings)
	api.POST("/companies/:companyId/filings/recompute", s.RecomputeFilings)
	api.POST("/companies/:companyId/filings/:type/:id/file", s.MarkFilingFiled)

	// -------- Tax Payments --------
	api.GET("/companies/:companyId/tax-payments", s.ListTaxPayments)
	api.POST("/companies/:companyId/tax-payments/:type/:id/pay", s.MarkTaxPaymentPaid)
}
