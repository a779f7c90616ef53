package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/models"
	"github.com/Tamurbek/dacha-bron/utils"
)

const tokenLifetime = 7 * 24 * time.Hour

// AuthController implements the minimal login flow used by the admin panel.
// This is deliberately a stub, not a full account system: no registration,
// no refresh tokens, no revocation.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Login verifies email/password against the users table and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "incorrect email or password")
		return
	}
	if user.Status == "blocked" {
		utils.Error(ctx, http.StatusForbidden, 40301, "account is blocked")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Me returns the authenticated account.
func (a *AuthController) Me(ctx *gin.Context) {
	idVal, ok := ctx.Get("user_id")
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var user models.User
	if err := a.db.First(&user, idVal).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}
