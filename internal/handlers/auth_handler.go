package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"github.com/nasiya-uz/nasiya-api/internal/session"
	"github.com/nasiya-uz/nasiya-api/pkg/logger"
	"gorm.io/gorm"
)

// AuthHandler runs the phone plus one-time-code login flow against the
// session store. Code delivery is out of scope; codes are written to the
// application log for the operator channel to pick up.
type AuthHandler struct {
	store    *session.Store
	userRepo repository.UserRepository
}

func NewAuthHandler(store *session.Store, userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{store: store, userRepo: userRepo}
}

type requestOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// RequestOTP issues a one-time code for a registered user's phone
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same response as success so the endpoint cannot be used to
			// probe which phones are registered.
			c.JSON(http.StatusOK, gin.H{"message": "code sent"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusOK, gin.H{"message": "code sent"})
		return
	}

	code, err := generateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if err := h.store.PutOTP(c.Request.Context(), req.Phone, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	logger.Info("otp issued", "phone", maskPhone(req.Phone), "code", code)
	c.JSON(http.StatusOK, gin.H{"message": "code sent"})
}

type loginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// Login exchanges a valid one-time code for a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.VerifyOTP(c.Request.Context(), req.Phone, req.Code); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		return
	}

	user, err := h.userRepo.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		return
	}

	token, err := h.store.IssueSession(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

// Logout revokes the caller's session token
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if err := h.store.RevokeSession(c.Request.Context(), parts[1]); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
