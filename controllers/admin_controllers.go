package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> ringkasan meja dan reservasi untuk dashboard admin
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var availableCount, occupiedCount, reservedCount, maintenanceCount int64

	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusAvailable).Count(&availableCount)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusOccupied).Count(&occupiedCount)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusReserved).Count(&reservedCount)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusMaintenance).Count(&maintenanceCount)

	var pendingCount, confirmedCount, cancelledCount, todayCount int64
	today := time.Now().Format("2006-01-02")

	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationStatusPending).Count(&pendingCount)
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationStatusConfirmed).Count(&confirmedCount)
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationStatusCancelled).Count(&cancelledCount)
	ac.DB.Model(&models.Reservation{}).
		Where("date = ? AND status <> ?", today, models.ReservationStatusCancelled).
		Count(&todayCount)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"tables": gin.H{
			"available":   availableCount,
			"occupied":    occupiedCount,
			"reserved":    reservedCount,
			"maintenance": maintenanceCount,
			"total":       availableCount + occupiedCount + reservedCount + maintenanceCount,
		},
		"reservations": gin.H{
			"pending":   pendingCount,
			"confirmed": confirmedCount,
			"cancelled": cancelledCount,
			"today":     todayCount,
		},
	})
}
