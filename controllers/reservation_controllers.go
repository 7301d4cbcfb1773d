package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB        *gorm.DB
	Booking   *services.BookingService
	Lifecycle *services.LifecycleService
}

func NewReservationController(db *gorm.DB, booking *services.BookingService, lifecycle *services.LifecycleService) *ReservationController {
	return &ReservationController{DB: db, Booking: booking, Lifecycle: lifecycle}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := userIDInterface.(uint)
	return userID, ok
}

// CreateReservation -> transaksi booking lewat conflict resolver
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		TableID       uint   `json:"table_id" binding:"required"`
		Date          string `json:"date" binding:"required"`
		Time          string `json:"time" binding:"required"`
		CustomerName  string `json:"customer_name" binding:"required"`
		CustomerEmail string `json:"customer_email" binding:"required,email"`
		Observations  string `json:"observations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Booking.Book(services.BookingInput{
		TableID:       req.TableID,
		UserID:        userID,
		Date:          req.Date,
		Time:          req.Time,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Observations:  req.Observations,
	})
	if err != nil {
		utils.RespondError(c, services.StatusFor(err), err)
		return
	}

	// Fire-and-forget: notifikasi tidak pernah membatalkan booking
	events.BroadcastReservationCreate(*reservation)
	rc.recordNotification(events.EventReservationCreate, reservation)

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// GetMyReservations -> daftar reservasi milik user, tanpa yang disembunyikan
func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var reservations []models.Reservation
	err := rc.DB.Where("user_id = ? AND hidden_from_user = ?", userID, false).
		Order("date, time").Find(&reservations).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetAllReservations -> semua reservasi termasuk yang disembunyikan (admin)
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	var reservations []models.Reservation
	query := rc.DB.Preload("Table").Order("date, time")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All reservations", reservations)
}

// loadOwned memuat reservasi dan memastikan pemiliknya (admin bebas).
func (rc *ReservationController) loadOwned(c *gin.Context) (*models.Reservation, bool) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return nil, false
	}

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrReservationNotFound)
		return nil, false
	}

	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		userID, ok := currentUserID(c)
		if !ok || reservation.UserID != userID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return nil, false
		}
	}
	return &reservation, true
}

// CancelReservation -> membatalkan dan melepas slot untuk dipesan ulang
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	reservation, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	cancelled, err := rc.Lifecycle.Cancel(reservation.ID)
	if err != nil {
		utils.RespondError(c, services.StatusFor(err), err)
		return
	}

	events.BroadcastReservationCancel(*cancelled)
	rc.recordNotification(events.EventReservationCancel, cancelled)

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", cancelled)
}

// ConfirmReservation -> pending menjadi confirmed
func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	reservation, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	confirmed, err := rc.Lifecycle.Confirm(reservation.ID)
	if err != nil {
		utils.RespondError(c, services.StatusFor(err), err)
		return
	}

	events.BroadcastReservationConfirm(*confirmed)
	rc.recordNotification(events.EventReservationConfirm, confirmed)

	utils.RespondJSON(c, http.StatusOK, "Reservation confirmed", confirmed)
}

// UpdateReservation -> hanya observations dan hidden_from_user yang bisa
// diubah setelah reservasi dibuat
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	reservation, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	var body struct {
		Observations *string `json:"observations"`
		Hidden       *bool   `json:"hidden_from_user"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := rc.Lifecycle.UpdateDetails(reservation.ID, body.Observations, body.Hidden)
	if err != nil {
		utils.RespondError(c, services.StatusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation updated", updated)
}

// recordNotification menyimpan baris notifikasi; kegagalan hanya di-log.
func (rc *ReservationController) recordNotification(event string, reservation *models.Reservation) {
	userID := reservation.UserID
	notif := models.Notification{
		UserID:  &userID,
		Event:   event,
		Message: "Reservation " + reservation.Code + ": " + event,
	}
	if err := rc.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("Error recording %s notification: %v", event, err)
	}
}
