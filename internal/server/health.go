package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/picksmart/storesync/internal/health"
)

func (s *Server) HandleHealthQuick(c *gin.Context) {
	report := s.healthSvc.Quick(c.Request.Context())
	status := http.StatusOK
	if !report.OK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (s *Server) HandleHealthFull(c *gin.Context) {
	report := s.healthSvc.Full(c.Request.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
