package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
)

func (s *Server) HandleListProducts(c *gin.Context) {
	req := catalogdomain.ListRequest{
		Status: strings.TrimSpace(c.Query("status")),
		Vendor: strings.TrimSpace(c.Query("vendor")),
	}

	products, err := s.productSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (s *Server) HandleGetProduct(c *gin.Context) {
	handle := strings.TrimSpace(c.Param("handle"))

	product, err := s.productSvc.GetByHandle(c.Request.Context(), handle)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) HandleListCategories(c *gin.Context) {
	categories, err := s.categorySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
