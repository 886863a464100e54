package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/config"
	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	apperrors "github.com/jobnest/jobnest-backend/internal/errors"
	"github.com/jobnest/jobnest-backend/internal/middleware"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
	session              config.JWTConfig
}

func NewAuthController(authService service.AuthService, passwordResetService service.PasswordResetService, session config.JWTConfig) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
		session:              session,
	}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=jobseeker employer"`
	CompanyName string `json:"company_name" binding:"required_if=Role employer"`
	Headline    string `json:"headline"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func userResponse(user *model.User) gin.H {
	resp := gin.H{
		"id":     user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
		"active": user.Active,
	}
	switch user.Role {
	case model.RoleEmployer:
		resp["company_name"] = user.CompanyName
	case model.RoleJobSeeker:
		resp["headline"] = user.Headline
	}
	return resp
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, token *service.SessionToken) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.session.CookieName, token.Token, int(ctrl.session.SessionExpiry.Seconds()), "/", "", ctrl.session.CookieSecure, true)
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration data")
		return
	}

	user, session, err := ctrl.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        model.UserRole(req.Role),
		CompanyName: req.CompanyName,
		Headline:    req.Headline,
	})
	if err != nil {
		respondServiceError(c, err, "register user")
		return
	}

	ctrl.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userResponse(user),
		"session": session,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login data")
		return
	}

	user, session, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}

	ctrl.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userResponse(user),
		"session": session,
	})
}

// Logout clears the session cookie
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.session.CookieName, "", -1, "/", "", ctrl.session.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns the authenticated user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// ChangePassword handles password change for an authenticated user
// PUT /api/v1/auth/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid password data")
		return
	}

	if err := ctrl.authService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// ForgotPassword issues a reset token and mails it
// POST /api/v1/auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid email is required")
		return
	}

	if err := ctrl.passwordResetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err, "request password reset")
		return
	}

	// identical response whether or not the account exists
	c.JSON(http.StatusOK, gin.H{
		"message": "If the account exists, a reset link has been sent",
	})
}

// VerifyResetToken checks a reset token without consuming it
// POST /api/v1/auth/verify-reset-token
func (ctrl *AuthController) VerifyResetToken(c *gin.Context) {
	var req VerifyResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and token are required")
		return
	}

	if err := ctrl.passwordResetService.VerifyForEmail(c.Request.Context(), req.Email, req.Token); err != nil {
		respondServiceError(c, err, "verify reset token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// ResetPassword sets a new password using a reset token
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email, token and a new password of at least 8 characters are required")
		return
	}

	if err := ctrl.passwordResetService.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		respondServiceError(c, err, "reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
