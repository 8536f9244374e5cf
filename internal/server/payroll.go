package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/withholding"
)

type createPayrollRequest struct {
	EmployeeID        int64                  `json:"employee_id,string"`
	EmployeeFirstName string                 `json:"employee_first_name"`
	EmployeeLastName  string                 `json:"employee_last_name"`
	EmployeeSSN       string                 `json:"employee_ssn"`
	WagePlanCode      string                 `json:"wage_plan_code"`
	PeriodStart       time.Time              `json:"period_start"`
	PeriodEnd         time.Time              `json:"period_end"`
	PayDate           time.Time              `json:"pay_date"`
	PeriodType        withholding.PeriodType `json:"period_type"`
	RegularPay        int64                  `json:"regular_pay"`
	OvertimePay       int64                  `json:"overtime_pay"`
	BonusPay          int64                  `json:"bonus_pay"`
	CommissionPay     int64                  `json:"commission_pay"`
	OtherDeductions   int64                  `json:"other_deductions"`
}

func (s *Server) CreatePayroll(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req createPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	rec, err := s.payrollSvc.Create(c.Request.Context(), payrolldomain.CreateRequest{
		CompanyID:         companyID,
		EmployeeID:        snowflake.ID(req.EmployeeID),
		EmployeeFirstName: req.EmployeeFirstName,
		EmployeeLastName:  req.EmployeeLastName,
		EmployeeSSN:       req.EmployeeSSN,
		WagePlanCode:      req.WagePlanCode,
		PeriodStart:       req.PeriodStart,
		PeriodEnd:         req.PeriodEnd,
		PayDate:           req.PayDate,
		PeriodType:        req.PeriodType,
		RegularPay:        req.RegularPay,
		OvertimePay:       req.OvertimePay,
		BonusPay:          req.BonusPay,
		CommissionPay:     req.CommissionPay,
		OtherDeductions:   req.OtherDeductions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) GetPayroll(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	rec, err := s.payrollSvc.Get(c.Request.Context(), companyID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type approvePayrollRequest struct {
	Elections withholding.ElectionSnapshot `json:"elections"`
}

func (s *Server) ApprovePayroll(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req approvePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	rec, err := s.payrollSvc.Approve(c.Request.Context(), payrolldomain.ApproveRequest{
		CompanyID: companyID,
		PayrollID: id,
		Elections: req.Elections,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) GetEmployeeYTD(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	employeeID, err := pathID(c, "employeeId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	// The cutoff is exclusive: ?as_of=2025-07-01 sums pay dates before
	// July 1.
	asOf, err := queryDate(c, "as_of", s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	totals, err := s.payrollSvc.YTD(c.Request.Context(), companyID, employeeID, asOf)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
