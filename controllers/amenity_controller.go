package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/models"
	"github.com/Tamurbek/dacha-bron/utils"
)

// AmenityController manages the amenity catalog.
type AmenityController struct {
	db *gorm.DB
}

// NewAmenityController creates a new AmenityController instance.
func NewAmenityController(db *gorm.DB) *AmenityController {
	return &AmenityController{db: db}
}

// ListAmenities returns the amenity catalog with offset pagination.
func (a *AmenityController) ListAmenities(ctx *gin.Context) {
	skip, limit := parseOffsetLimit(ctx.Query("skip"), ctx.Query("limit"))
	var amenities []models.Amenity
	if err := a.db.Offset(skip).Limit(limit).Find(&amenities).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list amenities")
		return
	}
	utils.Success(ctx, gin.H{"items": amenities})
}

type amenityRequest struct {
	NameUz *string `json:"name_uz"`
	NameRu *string `json:"name_ru"`
	NameEn *string `json:"name_en"`
	Icon   *string `json:"icon"`
}

func (r *amenityRequest) apply(a *models.Amenity) {
	if r.NameUz != nil {
		a.NameUz = *r.NameUz
	}
	if r.NameRu != nil {
		a.NameRu = *r.NameRu
	}
	if r.NameEn != nil {
		a.NameEn = *r.NameEn
	}
	if r.Icon != nil {
		a.Icon = *r.Icon
	}
}

// CreateAmenity inserts a new amenity.
func (a *AmenityController) CreateAmenity(ctx *gin.Context) {
	var req amenityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	var amenity models.Amenity
	req.apply(&amenity)
	if err := a.db.Create(&amenity).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to create amenity")
		return
	}
	utils.Success(ctx, gin.H{"amenity": amenity})
}

// UpdateAmenity applies provided fields to an existing amenity.
func (a *AmenityController) UpdateAmenity(ctx *gin.Context) {
	var req amenityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	var amenity models.Amenity
	if err := a.db.First(&amenity, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "amenity not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load amenity")
		return
	}

	req.apply(&amenity)
	if err := a.db.Save(&amenity).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to update amenity")
		return
	}
	utils.Success(ctx, gin.H{"amenity": amenity})
}

// DeleteAmenity removes an amenity.
func (a *AmenityController) DeleteAmenity(ctx *gin.Context) {
	var amenity models.Amenity
	if err := a.db.First(&amenity, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40470, "amenity not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load amenity")
		return
	}
	if err := a.db.Delete(&amenity).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to delete amenity")
		return
	}
	utils.Success(ctx, gin.H{"amenity": amenity})
}
