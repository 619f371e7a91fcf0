package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	r.GET("/users/:id", h.Get)
	r.PUT("/users/:id", h.Update)
}

// GET /users
func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /users
func (h *Handler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json or missing name"})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}

	c.Header("Location", "/api/users/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, gin.H{"id": res.ID})
}

// GET /users/:id （存在しないIDは 200 {} のまま）
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return
	}

	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}
	if res == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /users/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json or missing name"})
		return
	}

	n, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"changes": n})
}

func errBody(err error) gin.H {
	var api *APIError
	if errors.As(err, &api) {
		return gin.H{"error": api.Message}
	}
	return gin.H{"error": err.Error()}
}
