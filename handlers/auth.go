package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/judyrop/storefront/auth"
	"github.com/judyrop/storefront/errx"
	"github.com/judyrop/storefront/models"
)

type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

func NewAuthHandler(svc *auth.Service, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: log}
}

// Register mounts signup/login/register on public and logout on protected.
func (h *AuthHandler) Register(public, protected *gin.RouterGroup) {
	public.POST("/signup", h.Signup)
	public.POST("/login", h.Login)
	public.POST("/user/register", h.UserRegister)
	public.POST("/user/login", h.UserLogin)

	protected.POST("/logout", h.Logout)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var in models.SignUpSchema
	if !bindJSON(c, &in) {
		return
	}
	if _, err := h.svc.Signup(c.Request.Context(), in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "User created successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in models.LoginSchema
	if !bindJSON(c, &in) {
		return
	}
	token, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token.Key})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		respondError(c, h.logger, errx.Unauthorized("Unauthorized"))
		return
	}
	if err := h.svc.Logout(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Successfully logged out"})
}

// UserRegister creates an account and echoes it back with 201.
func (h *AuthHandler) UserRegister(c *gin.Context) {
	var in models.SignUpSchema
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewUserResponse(user))
}

// UserLogin is Login with every credential failure reported as 404.
func (h *AuthHandler) UserLogin(c *gin.Context) {
	var in models.LoginSchema
	if !bindJSON(c, &in) {
		return
	}
	token, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		if appErr := errx.As(err); appErr.Status == http.StatusUnauthorized {
			err = errx.NotFound("Login Failed")
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token.Key})
}
