package books

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/books", h.List)
	r.POST("/books", h.Create)
	r.DELETE("/books/:id", h.Delete)
}

// GET /books
func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /books
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json or missing title"})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}

	c.Header("Location", "/api/books/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, gin.H{"id": res.ID})
}

// DELETE /books/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return
	}

	n, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"changes": n})
}

// 旧フロント互換のため {"error": メッセージ} の形のまま返す
func errBody(err error) gin.H {
	var api *APIError
	if errors.As(err, &api) {
		return gin.H{"error": api.Message}
	}
	return gin.H{"error": err.Error()}
}
