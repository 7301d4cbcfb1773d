package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type PolicyController struct {
	Policies *services.PolicyStore
}

func NewPolicyController(policies *services.PolicyStore) *PolicyController {
	return &PolicyController{Policies: policies}
}

// GetPolicy -> snapshot kebijakan aktif
func (pc *PolicyController) GetPolicy(c *gin.Context) {
	cfg := pc.Policies.Current()
	utils.RespondJSON(c, http.StatusOK, "Active booking policy", cfg)
}

// UpdatePolicy -> ganti kebijakan (admin). Berlaku untuk booking berikutnya;
// reservasi yang sudah ada tidak tersentuh.
func (pc *PolicyController) UpdatePolicy(c *gin.Context) {
	var req struct {
		MaxReservationsPerUser int    `json:"max_reservations_per_user" binding:"required"`
		ReservationLimitHours  int    `json:"reservation_limit_hours" binding:"required"`
		MinIntervalMinutes     int    `json:"min_interval_minutes"`
		OpeningHour            string `json:"opening_hour" binding:"required"`
		ClosingHour            string `json:"closing_hour" binding:"required"`
		EnforceOperatingHours  *bool  `json:"enforce_operating_hours" binding:"required"`
		EnforceCap             *bool  `json:"enforce_cap" binding:"required"`
		EnforceSpacing         *bool  `json:"enforce_spacing" binding:"required"`
		AutoConfirm            *bool  `json:"auto_confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cfg, err := pc.Policies.Update(models.PolicyConfig{
		MaxReservationsPerUser: req.MaxReservationsPerUser,
		ReservationLimitHours:  req.ReservationLimitHours,
		MinIntervalMinutes:     req.MinIntervalMinutes,
		OpeningHour:            req.OpeningHour,
		ClosingHour:            req.ClosingHour,
		EnforceOperatingHours:  *req.EnforceOperatingHours,
		EnforceCap:             *req.EnforceCap,
		EnforceSpacing:         *req.EnforceSpacing,
		AutoConfirm:            *req.AutoConfirm,
	})
	if err != nil {
		utils.RespondError(c, services.StatusFor(err), err)
		return
	}

	events.BroadcastPolicyUpdate(cfg)

	utils.InfoLogger.Printf("Booking policy updated (cap=%d, interval=%dm, hours=%s-%s)",
		cfg.MaxReservationsPerUser, cfg.MinIntervalMinutes, cfg.OpeningHour, cfg.ClosingHour)
	utils.RespondJSON(c, http.StatusOK, "Booking policy updated", cfg)
}
