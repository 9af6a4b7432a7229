package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// AuthController handles registration and sign in/out
type AuthController struct {
	authService    services.AuthService
	authMiddleware *middleware.AuthMiddleware
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, authMiddleware *middleware.AuthMiddleware) *AuthController {
	return &AuthController{
		authService:    authService,
		authMiddleware: authMiddleware,
	}
}

// RegisterForm shows the registration form
func (c *AuthController) RegisterForm(ctx *gin.Context) {
	c.renderRegister(ctx, &dto.RegisterForm{}, apperrors.FieldErrors{})
}

// Register creates an account and signs it in
func (c *AuthController) Register(ctx *gin.Context) {
	form := &dto.RegisterForm{}
	if err := bindForm(ctx, form); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), form)
	if err != nil {
		if errs, ok := formErrors(err); ok {
			c.renderRegister(ctx, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	if err := c.authMiddleware.StartSession(ctx, user); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, fmt.Sprintf("Account created for %s!", user.Username))
	ctx.Redirect(http.StatusFound, "/students/")
}

// LoginForm shows the sign-in form
func (c *AuthController) LoginForm(ctx *gin.Context) {
	c.renderLogin(ctx, &dto.LoginForm{}, ctx.Query("next"), apperrors.FieldErrors{})
}

// Login checks the credentials and signs the user in
func (c *AuthController) Login(ctx *gin.Context) {
	form := &dto.LoginForm{}
	if err := bindForm(ctx, form); err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	next := ctx.PostForm("next")

	user, err := c.authService.Authenticate(ctx.Request.Context(), form)
	if err != nil {
		if errs, ok := formErrors(err); ok {
			c.renderLogin(ctx, form, next, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	if err := c.authMiddleware.StartSession(ctx, user); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.Redirect(http.StatusFound, middleware.SafeRedirect(next, "/"))
}

// Logout revokes the session and returns to the login page
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authMiddleware.EndSession(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to revoke session")
	}
	ctx.Redirect(http.StatusFound, middleware.LoginURL)
}

func (c *AuthController) renderRegister(ctx *gin.Context, form *dto.RegisterForm, errs apperrors.FieldErrors) {
	middleware.Render(ctx, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

func (c *AuthController) renderLogin(ctx *gin.Context, form *dto.LoginForm, next string, errs apperrors.FieldErrors) {
	middleware.Render(ctx, http.StatusOK, "login.html", gin.H{
		"Title":  "Login",
		"Form":   form,
		"Next":   next,
		"Errors": errs,
	})
}
