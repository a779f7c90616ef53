package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/models"
	"github.com/Tamurbek/dacha-bron/utils"
)

// ListingController manages CRUD and paginated search for listings.
type ListingController struct {
	db *gorm.DB
}

// NewListingController creates a new ListingController instance.
func NewListingController(db *gorm.DB) *ListingController {
	return &ListingController{db: db}
}

// ListingPage is the serialized shape of one listing search page.
type ListingPage struct {
	Items []models.Listing `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Pages int              `json:"pages"`
}

// ListListings returns a paginated, optionally filtered page of listings.
// Pages are served through a short-TTL Redis cache. Listing mutations do not
// purge entries, so reads may lag writes by up to the TTL; that staleness
// window is accepted behavior.
func (l *ListingController) ListListings(ctx *gin.Context) {
	page, size := parsePagination(ctx.Query("page"), ctx.Query("size"))
	region := strings.TrimSpace(ctx.Query("region"))
	search := strings.TrimSpace(ctx.Query("search"))

	key := utils.ListingsCacheKey(region, search, page, size)
	b, err := utils.GetOrCompute(key, utils.ListingsCacheTTL, func() (interface{}, error) {
		pageData, err := l.queryListings(region, search, page, size)
		if err != nil {
			return nil, err
		}
		return utils.JSONResponse{Code: 0, Message: "success", Data: pageData}, nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list listings")
		return
	}
	ctx.Data(http.StatusOK, "application/json", b)
}

func (l *ListingController) queryListings(region, search string, page, size int) (*ListingPage, error) {
	query := l.db.Model(&models.Listing{}).Order("created_at DESC")
	if region != "" {
		query = query.Where("region = ?", region)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR location LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.Listing
	if err := query.Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Listing{}
	}
	return &ListingPage{Items: items, Total: total, Page: page, Size: size, Pages: pageCount(total, size)}, nil
}

// GetListing returns a single listing by id.
func (l *ListingController) GetListing(ctx *gin.Context) {
	var listing models.Listing
	if err := l.db.First(&listing, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "listing not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load listing")
		return
	}
	utils.Success(ctx, gin.H{"listing": listing})
}

type listingRequest struct {
	Title         *string  `json:"title"`
	Region        *string  `json:"region"`
	Location      *string  `json:"location"`
	PricePerNight *float64 `json:"price_per_night"`
	Rating        *float64 `json:"rating"`
	GuestsMax     *int     `json:"guests_max"`
	Rooms         *int     `json:"rooms"`
	Beds          *int     `json:"beds"`
	Baths         *int     `json:"baths"`
	Amenities     *string  `json:"amenities"`
	Images        *string  `json:"images"`
	Description   *string  `json:"description"`
}

func (r *listingRequest) apply(listing *models.Listing) {
	if r.Title != nil {
		listing.Title = strings.TrimSpace(*r.Title)
	}
	if r.Region != nil {
		listing.Region = *r.Region
	}
	if r.Location != nil {
		listing.Location = *r.Location
	}
	if r.PricePerNight != nil {
		listing.PricePerNight = *r.PricePerNight
	}
	if r.Rating != nil {
		listing.Rating = *r.Rating
	}
	if r.GuestsMax != nil {
		listing.GuestsMax = *r.GuestsMax
	}
	if r.Rooms != nil {
		listing.Rooms = *r.Rooms
	}
	if r.Beds != nil {
		listing.Beds = *r.Beds
	}
	if r.Baths != nil {
		listing.Baths = *r.Baths
	}
	if r.Amenities != nil {
		listing.Amenities = *r.Amenities
	}
	if r.Images != nil {
		listing.Images = *r.Images
	}
	if r.Description != nil {
		listing.Description = utils.Sanitize(*r.Description)
	}
}

// CreateListing inserts a new listing.
func (l *ListingController) CreateListing(ctx *gin.Context) {
	var req listingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40011, "title cannot be empty")
		return
	}

	var listing models.Listing
	req.apply(&listing)
	if err := l.db.Create(&listing).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create listing")
		return
	}
	utils.Success(ctx, gin.H{"listing": listing})
}

// UpdateListing applies provided fields to an existing listing.
func (l *ListingController) UpdateListing(ctx *gin.Context) {
	var req listingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	var listing models.Listing
	if err := l.db.First(&listing, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "listing not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load listing")
		return
	}

	req.apply(&listing)
	if err := l.db.Save(&listing).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update listing")
		return
	}
	utils.Success(ctx, gin.H{"listing": listing})
}

// DeleteListing removes a listing.
func (l *ListingController) DeleteListing(ctx *gin.Context) {
	var listing models.Listing
	if err := l.db.First(&listing, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "listing not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load listing")
		return
	}
	if err := l.db.Delete(&listing).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to delete listing")
		return
	}
	utils.Success(ctx, gin.H{"listing": listing})
}
