package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
)

func (s *Server) GetQuarterFilings(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	year, quarter, err := s.yearQuarterParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filings, err := s.filingSvc.GetQuarter(c.Request.Context(), companyID, year, quarter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, filings)
}

func (s *Server) RecomputeFilings(c *gin.Context) {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	year, quarter, err := s.yearQuarterParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.filingSvc.RecomputeQuarter(c.Request.Context(), companyID, year, quarter); err != nil {
		AbortWithError(c, err)
		return
	}
	filings, err := s.filingSvc.GetQuarter(c.Request.Context(), companyID, year, quarter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, filings)
}

type markFiledRequest struct {
	FiledBy string `json:"filed_by"`
}

func (s *Server) MarkFilingFiled(c *gin.Context) {
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
	var req markFiledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	err = s.filingSvc.MarkFiled(c.Request.Context(), filingdomain.MarkFiledRequest{
		CompanyID: companyID,
		Type:      filingdomain.FilingType(c.Param("type")),
		FilingID:  id,
		FiledBy:   req.FiledBy,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "filed"})
}
