package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/taxrail/internal/company/domain"
)

type createCompanyRequest struct {
	Name         string `json:"name"`
	EIN          string `json:"ein"`
	CAEDDNumber  string `json:"ca_edd_number"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}
	if strings.TrimSpace(req.EIN) == "" {
		AbortWithError(c, newValidationError("ein", "required", "ein is required"))
		return
	}

	company := &companydomain.Company{
		ID:           s.genID.Generate(),
		Name:         req.Name,
		EIN:          req.EIN,
		CAEDDNumber:  req.CAEDDNumber,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
	}
	if err := s.companyRepo.Create(c.Request.Context(), company); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (s *Server) GetCompany(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	company, err := s.companyRepo.FindByID(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if company == nil {
		AbortWithError(c, companydomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, company)
}

type addTaxRateRequest struct {
	UIRate        float64   `json:"ui_rate"`
	ETTSubject    bool      `json:"ett_subject"`
	EffectiveFrom time.Time `json:"effective_from"`
}

func (s *Server) AddCompanyTaxRate(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req addTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	company, err := s.companyRepo.FindByID(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if company == nil {
		AbortWithError(c, companydomain.ErrNotFound)
		return
	}

	rate := &companydomain.CompanyTaxRate{
		ID:            s.genID.Generate(),
		CompanyID:     companyID,
		UIRate:        req.UIRate,
		ETTSubject:    req.ETTSubject,
		EffectiveFrom: req.EffectiveFrom.UTC(),
	}
	if err := rate.Validate(); err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.companyRepo.AddTaxRate(c.Request.Context(), rate); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}
