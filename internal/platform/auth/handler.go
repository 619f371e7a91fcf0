package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *Service
	sessions *Manager
}

func NewHandler(svc *Service, sessions *Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// RegisterPublicRoutes: 未ログインで叩けるのはログインだけ
func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.POST("/login", h.Login)
}

// RegisterProtectedRoutes: RequireAuth 配下
func (h *Handler) RegisterProtectedRoutes(r gin.IRoutes) {
	r.POST("/logout", h.Logout)
	r.POST("/change-password", h.ChangePassword)
}

// RegisterAdminRoutes: RequireAdmin 配下
func (h *Handler) RegisterAdminRoutes(r gin.IRoutes) {
	r.GET("/accounts", h.ListAccounts)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	acct, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// どちらの要素で落ちたかは常に伏せる
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if _, err := h.sessions.Issue(c.Writer, acct); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c.Writer, c.Request)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	accountID, ok := AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), accountID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, ErrOldPasswordWrong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "old password incorrect"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type AccountResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accts, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res := make([]AccountResponse, 0, len(accts))
	for _, a := range accts {
		res = append(res, AccountResponse{
			ID:        a.ID,
			Username:  a.Username,
			IsAdmin:   a.IsAdmin,
			CreatedAt: a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, res)
}
