package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	taxpaymentdomain "github.com/smallbiznis/taxrail/internal/taxpayment/domain"
)

func (s *Server) ListTaxPayments(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	year, err := queryInt(c, "year", s.clock.Now().Year())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payments, err := s.paymentSvc.ListYear(c.Request.Context(), companyID, year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

type markPaidRequest struct {
	PaidDate           time.Time `json:"paid_date"`
	PaymentMethod      string    `json:"payment_method"`
	ConfirmationNumber string    `json:"confirmation_number"`
}

func (s *Server) MarkTaxPaymentPaid(c *gin.Context) {
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
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	err = s.paymentSvc.MarkPaid(c.Request.Context(), taxpaymentdomain.MarkPaidRequest{
		CompanyID:          companyID,
		Type:               taxpaymentdomain.PaymentType(c.Param("type")),
		PaymentID:          id,
		PaidDate:           req.PaidDate,
		PaymentMethod:      req.PaymentMethod,
		ConfirmationNumber: req.ConfirmationNumber,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}
