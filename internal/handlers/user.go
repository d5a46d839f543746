package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/config"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/requestdata"
	"github.com/yungbote/aistudio-backend/internal/services"
)

const sessionCookieName = "token"

type UserHandler struct {
	log         *logger.Logger
	cfg         *config.Config
	authService services.AuthService
}

func NewUserHandler(log *logger.Logger, cfg *config.Config, authService services.AuthService) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		cfg:         cfg,
		authService: authService,
	}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required,min=3,max=32"`
		Password string `json:"password" binding:"required,min=6,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid inputs")
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, token)
	RespondOK(c, gin.H{
		"message":  "User Created Successfully",
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *UserHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, "invalid inputs")
		return
	}

	user, token, err := h.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAPIError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, token)
	RespondOK(c, gin.H{
		"message": "Logged in successfully",
		"userId":  user.ID,
		"email":   user.Email,
	})
}

// Logout is idempotent: there is no server-side revocation, the client is
// simply told to discard the cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	RespondOK(c, gin.H{"message": "Logged out Successfully"})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, "unauthorized")
		return
	}
	RespondOK(c, gin.H{
		"id":       rd.UserID,
		"email":    rd.Email,
		"fullName": rd.Username,
	})
}

func (h *UserHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		sessionCookieName,
		token,
		int(h.authService.TokenTTL().Seconds()),
		"/",
		h.cookieDomain(),
		h.cfg.IsProduction(),
		true,
	)
}

func (h *UserHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, "", -1, "/", h.cookieDomain(), h.cfg.IsProduction(), true)
}

func (h *UserHandler) cookieDomain() string {
	if h.cfg.IsProduction() {
		return h.cfg.CookieDomain
	}
	return ""
}
