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

// BookingController manages CRUD operations for bookings.
type BookingController struct {
	db *gorm.DB
}

// NewBookingController creates a new BookingController instance.
func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{db: db}
}

// ListBookings returns paginated bookings with optional status filtering,
// decorated with display names for the admin table.
func (b *BookingController) ListBookings(ctx *gin.Context) {
	page, size := parsePagination(ctx.Query("page"), ctx.Query("size"))
	status := strings.TrimSpace(ctx.Query("status"))

	query := b.db.Model(&models.Booking{}).Preload("User").Preload("Listing").Order("id DESC")
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to count bookings")
		return
	}
	var bookings []models.Booking
	if err := query.Offset((page - 1) * size).Limit(size).Find(&bookings).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list bookings")
		return
	}

	for i := range bookings {
		bookings[i].UserName = bookingUserName(&bookings[i])
		bookings[i].ListingTitle = bookingListingTitle(&bookings[i])
	}

	utils.Success(ctx, gin.H{
		"items": bookings,
		"total": total,
		"page":  page,
		"size":  size,
		"pages": pageCount(total, size),
	})
}

func bookingUserName(bk *models.Booking) string {
	if bk.CustomerName != "" {
		return bk.CustomerName
	}
	if bk.User != nil && bk.User.FullName != "" {
		return bk.User.FullName
	}
	return ""
}

func bookingListingTitle(bk *models.Booking) string {
	if bk.Listing != nil {
		return bk.Listing.Title
	}
	return ""
}

// GetBooking returns a single booking by id.
func (b *BookingController) GetBooking(ctx *gin.Context) {
	var booking models.Booking
	if err := b.db.Preload("User").Preload("Listing").First(&booking, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "booking not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load booking")
		return
	}
	utils.Success(ctx, gin.H{"booking": booking})
}

type bookingRequest struct {
	UserID        *uint      `json:"user_id"`
	ListingID     *uint      `json:"listing_id"`
	CheckIn       *time.Time `json:"check_in"`
	CheckOut      *time.Time `json:"check_out"`
	Guests        *int       `json:"guests"`
	TotalPrice    *float64   `json:"total_price"`
	Status        *string    `json:"status"`
	CustomerName  *string    `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone"`
}

var bookingStatuses = map[string]bool{"pending": true, "confirmed": true, "cancelled": true}

func (r *bookingRequest) apply(bk *models.Booking) {
	if r.UserID != nil {
		bk.UserID = *r.UserID
	}
	if r.ListingID != nil {
		bk.ListingID = *r.ListingID
	}
	if r.CheckIn != nil {
		bk.CheckIn = *r.CheckIn
	}
	if r.CheckOut != nil {
		bk.CheckOut = *r.CheckOut
	}
	if r.Guests != nil {
		bk.Guests = *r.Guests
	}
	if r.TotalPrice != nil {
		bk.TotalPrice = *r.TotalPrice
	}
	if r.Status != nil {
		bk.Status = *r.Status
	}
	if r.CustomerName != nil {
		bk.CustomerName = *r.CustomerName
	}
	if r.CustomerPhone != nil {
		bk.CustomerPhone = *r.CustomerPhone
	}
}

// CreateBooking inserts a new reservation. Open to unauthenticated guests.
func (b *BookingController) CreateBooking(ctx *gin.Context) {
	var req bookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if req.ListingID == nil || *req.ListingID == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40041, "listing_id is required")
		return
	}
	if req.Status != nil && !bookingStatuses[*req.Status] {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid booking status")
		return
	}

	var booking models.Booking
	req.apply(&booking)
	if err := b.db.Create(&booking).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to create booking")
		return
	}
	utils.Success(ctx, gin.H{"booking": booking})
}

// UpdateBooking applies provided fields to an existing booking.
func (b *BookingController) UpdateBooking(ctx *gin.Context) {
	var req bookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if req.Status != nil && !bookingStatuses[*req.Status] {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid booking status")
		return
	}

	var booking models.Booking
	if err := b.db.First(&booking, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "booking not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load booking")
		return
	}

	req.apply(&booking)
	if err := b.db.Save(&booking).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to update booking")
		return
	}
	utils.Success(ctx, gin.H{"booking": booking})
}

// DeleteBooking removes a booking.
func (b *BookingController) DeleteBooking(ctx *gin.Context) {
	var booking models.Booking
	if err := b.db.First(&booking, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "booking not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load booking")
		return
	}
	if err := b.db.Delete(&booking).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to delete booking")
		return
	}
	utils.Success(ctx, gin.H{"booking": booking})
}
