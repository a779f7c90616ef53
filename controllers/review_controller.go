package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/models"
	"github.com/Tamurbek/dacha-bron/utils"
)

// ReviewController manages CRUD operations for listing reviews.
type ReviewController struct {
	db *gorm.DB
}

// NewReviewController creates a new ReviewController instance.
func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{db: db}
}

// ListReviews returns paginated reviews filterable by listing, creation date
// window and a search term over reviewer name and comment text.
func (r *ReviewController) ListReviews(ctx *gin.Context) {
	page, size := parsePagination(ctx.Query("page"), ctx.Query("size"))
	listingID := strings.TrimSpace(ctx.Query("listing_id"))
	startDate := strings.TrimSpace(ctx.Query("start_date"))
	endDate := strings.TrimSpace(ctx.Query("end_date"))
	search := strings.TrimSpace(ctx.Query("search"))

	query := r.db.Model(&models.Review{}).Order("created_at DESC")
	if listingID != "" {
		query = query.Where("listing_id = ?", listingID)
	}
	if startDate != "" {
		query = query.Where("created_at >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("created_at <= ?", endDate)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("user_name LIKE ? OR comment LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to count reviews")
		return
	}
	var reviews []models.Review
	if err := query.Offset((page - 1) * size).Limit(size).Find(&reviews).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list reviews")
		return
	}

	utils.Success(ctx, gin.H{
		"items": reviews,
		"total": total,
		"page":  page,
		"size":  size,
		"pages": pageCount(total, size),
	})
}

// GetReview returns a single review by id.
func (r *ReviewController) GetReview(ctx *gin.Context) {
	var review models.Review
	if err := r.db.First(&review, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40450, "review not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load review")
		return
	}
	utils.Success(ctx, gin.H{"review": review})
}

type reviewRequest struct {
	ListingID *uint   `json:"listing_id"`
	UserName  *string `json:"user_name"`
	Rating    *int    `json:"rating"`
	Comment   *string `json:"comment"`
}

func (req *reviewRequest) apply(review *models.Review) {
	if req.ListingID != nil {
		review.ListingID = *req.ListingID
	}
	if req.UserName != nil {
		review.UserName = strings.TrimSpace(*req.UserName)
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = utils.Sanitize(*req.Comment)
	}
}

// CreateReview inserts a new review.
func (r *ReviewController) CreateReview(ctx *gin.Context) {
	var req reviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	if req.ListingID == nil || *req.ListingID == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40051, "listing_id is required")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "rating must be between 1 and 5")
		return
	}

	review := models.Review{Rating: 5}
	req.apply(&review)
	if err := r.db.Create(&review).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to create review")
		return
	}
	utils.Success(ctx, gin.H{"review": review})
}

// UpdateReview applies provided fields to an existing review.
func (r *ReviewController) UpdateReview(ctx *gin.Context) {
	var req reviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "rating must be between 1 and 5")
		return
	}

	var review models.Review
	if err := r.db.First(&review, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40450, "review not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load review")
		return
	}

	req.apply(&review)
	if err := r.db.Save(&review).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to update review")
		return
	}
	utils.Success(ctx, gin.H{"review": review})
}

// DeleteReview removes a review.
func (r *ReviewController) DeleteReview(ctx *gin.Context) {
	var review models.Review
	if err := r.db.First(&review, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40450, "review not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load review")
		return
	}
	if err := r.db.Delete(&review).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to delete review")
		return
	}
	utils.Success(ctx, gin.H{"review": review})
}
