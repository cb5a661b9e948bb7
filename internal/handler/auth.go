package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopeasy/storefront-api/internal/dto"
	"github.com/shopeasy/storefront-api/internal/middleware"
	"github.com/shopeasy/storefront-api/internal/service"
)

type AuthHandler struct {
	svc          *service.AuthService
	cookieMaxAge int
	cookieSecure bool
}

func NewAuthHandler(svc *service.AuthService, cookieMaxAge int, cookieSecure bool) *AuthHandler {
	return &AuthHandler{svc: svc, cookieMaxAge: cookieMaxAge, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username already exists."})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already registered."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		}
		return
	}

	h.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return
	}

	h.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been logged out."})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Please login to continue"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookie, token, h.cookieMaxAge, "/", "", h.cookieSecure, true)
}
