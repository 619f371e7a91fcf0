package loans

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/checkout", h.Checkout)
	r.POST("/checkin", h.Checkin)
	r.GET("/loans", h.List)
}

// POST /checkout
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json or missing required fields"})
		return
	}

	res, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}

	c.Header("Location", "/api/loans/"+res.LoanULID)
	c.JSON(http.StatusCreated, gin.H{"id": res.ID})
}

// POST /checkin
func (h *Handler) Checkin(c *gin.Context) {
	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json or missing book_id"})
		return
	}

	n, err := h.svc.Checkin(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"changes": n})
}

// GET /loans
func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func errBody(err error) gin.H {
	var api *APIError
	if errors.As(err, &api) {
		return gin.H{"error": api.Message}
	}
	return gin.H{"error": err.Error()}
}
