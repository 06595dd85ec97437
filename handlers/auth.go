package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"finbook/config"
	userRepo "finbook/database/repository/user"
	"finbook/models"
	"finbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL             = 72 * time.Hour
	verificationTokenTTL = 48 * time.Hour
)

// AuthHandler serves registration, login and email verification. Mailer is
// nil when no email provider is configured; verification emails are then
// skipped and accounts stay unverified.
type AuthHandler struct {
	Users  userRepo.UserRepository
	Mailer *utils.Mailer
}

func NewAuthHandler(users userRepo.UserRepository, mailer *utils.Mailer) *AuthHandler {
	return &AuthHandler{Users: users, Mailer: mailer}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Locale   string `json:"locale"`
	Currency string `json:"currency"`
}

// RegisterHandler creates a new user and returns its ID and token.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration payload", err.Error())
		return
	}

	existing, err := h.Users.GetByEmail(req.Email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to check existing user", err.Error())
		return
	}
	if existing != nil {
		utils.JSONError(c, http.StatusConflict, "User already exists", "")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to hash password", err.Error())
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Locale:       req.Locale,
		Currency:     req.Currency,
	}
	if err := h.Users.Create(user); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create user", err.Error())
		return
	}

	if h.Mailer != nil {
		if err := h.sendVerificationEmail(c.Request.Context(), user); err != nil {
			utils.GetLogger().Sugar().Warnw("failed to send verification email",
				"userId", user.ID, "error", err)
		}
	}

	token, err := utils.GenerateToken(user.ID, tokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "token": token})
}

func (h *AuthHandler) sendVerificationEmail(ctx context.Context, user *models.User) error {
	token, err := utils.GenerateScopedToken(user.ID, utils.ScopeEmailVerify, verificationTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s",
		config.AppConfig.AppBaseURL, url.QueryEscape(token))
	html := fmt.Sprintf(
		"<p>Welcome to Finbook, %s!</p><p><a href=%q>Verify your email</a> to receive payment reminders by email.</p>",
		user.Username, link)
	plain := fmt.Sprintf("Welcome to Finbook, %s! Verify your email to receive payment reminders: %s",
		user.Username, link)

	return h.Mailer.Send(ctx, user.Email, "Verify your email", html, plain)
}

// VerifyEmailHandler consumes the token from a verification link and marks
// the account's email verified.
func (h *AuthHandler) VerifyEmailHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing verification token", "")
		return
	}

	userID, err := utils.SubjectFromScopedToken(token, utils.ScopeEmailVerify)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired verification link", err.Error())
		return
	}

	if err := h.Users.SetEmailVerified(userID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Failed to verify email", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

// ResendVerificationHandler mails a fresh verification link to the
// authenticated user.
func (h *AuthHandler) ResendVerificationHandler(c *gin.Context) {
	if h.Mailer == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Email transport not configured", "")
		return
	}

	user, err := h.Users.GetByID(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "User not found", err.Error())
		return
	}
	if user.EmailVerified {
		c.JSON(http.StatusOK, gin.H{"status": "already-verified"})
		return
	}

	if err := h.sendVerificationEmail(c.Request.Context(), user); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to send verification email", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler verifies credentials and returns the user's ID and token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login payload", err.Error())
		return
	}

	user, err := h.Users.GetByEmail(req.Email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to look up user", err.Error())
		return
	}
	if user == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}

	token, err := utils.GenerateToken(user.ID, tokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": token})
}
