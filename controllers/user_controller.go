package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/models"
	"github.com/Tamurbek/dacha-bron/utils"
)

// UserController manages admin-panel user accounts.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// ListUsers returns user accounts with offset pagination.
func (u *UserController) ListUsers(ctx *gin.Context) {
	skip, limit := parseOffsetLimit(ctx.Query("skip"), ctx.Query("limit"))
	var users []models.User
	if err := u.db.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list users")
		return
	}
	utils.Success(ctx, gin.H{"items": users})
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (u *UserController) CreateUser(ctx *gin.Context) {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
		Status   string `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	var existing models.User
	if err := u.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "a user with this email already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to hash password")
		return
	}

	user := models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         defaultString(req.Role, "user"),
		Status:       defaultString(req.Status, "active"),
	}
	if err := u.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// UpdateUser applies provided fields to an existing account.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	var req struct {
		FullName *string `json:"full_name"`
		Role     *string `json:"role"`
		Status   *string `json:"status"`
		Password *string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load user")
		return
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to hash password")
			return
		}
		user.PasswordHash = hash
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to update user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// DeleteUser removes an account.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load user")
		return
	}
	if err := u.db.Delete(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to delete user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
