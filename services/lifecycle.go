package services

import (
	"errors"
	"time"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// LifecycleService adalah satu-satunya penulis field status reservasi.
type LifecycleService struct {
	db   *gorm.DB
	stop chan struct{}
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db, stop: make(chan struct{})}
}

// CanTransition -> pending->confirmed, pending->cancelled,
// confirmed->cancelled; cancelled terminal.
func CanTransition(from, to string) bool {
	switch from {
	case models.ReservationStatusPending:
		return to == models.ReservationStatusConfirmed || to == models.ReservationStatusCancelled
	case models.ReservationStatusConfirmed:
		return to == models.ReservationStatusCancelled
	default:
		return false
	}
}

func (s *LifecycleService) load(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, ErrUnknown
	}
	return &reservation, nil
}

// Confirm -> pending menjadi confirmed.
func (s *LifecycleService) Confirm(id uint) (*models.Reservation, error) {
	reservation, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(reservation.Status, models.ReservationStatusConfirmed) {
		return nil, ErrInvalidTransition
	}

	reservation.Status = models.ReservationStatusConfirmed
	if err := s.db.Save(reservation).Error; err != nil {
		return nil, ErrUnknown
	}

	utils.InfoLogger.Printf("Reservation %s confirmed", reservation.Code)
	return reservation, nil
}

// Cancel membatalkan reservasi dan mengosongkan slot_key supaya slotnya
// langsung bisa dipesan ulang. Barisnya tidak pernah dihapus.
func (s *LifecycleService) Cancel(id uint) (*models.Reservation, error) {
	reservation, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(reservation.Status, models.ReservationStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	err = s.db.Model(reservation).Updates(map[string]interface{}{
		"status":   models.ReservationStatusCancelled,
		"slot_key": nil,
	}).Error
	if err != nil {
		return nil, ErrUnknown
	}
	reservation.Status = models.ReservationStatusCancelled
	reservation.SlotKey = nil

	utils.InfoLogger.Printf("Reservation %s cancelled, slot released", reservation.Code)
	return reservation, nil
}

// UpdateDetails mengubah observations dan/atau hidden_from_user. Field lain
// immutable setelah dibuat.
func (s *LifecycleService) UpdateDetails(id uint, observations *string, hidden *bool) (*models.Reservation, error) {
	reservation, err := s.load(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if observations != nil {
		changes["observations"] = *observations
		reservation.Observations = *observations
	}
	if hidden != nil {
		changes["hidden_from_user"] = *hidden
		reservation.HiddenFromUser = *hidden
	}
	if len(changes) == 0 {
		return reservation, nil
	}

	if err := s.db.Model(reservation).Updates(changes).Error; err != nil {
		return nil, ErrUnknown
	}
	return reservation, nil
}

// StartPendingSweeper memulai goroutine yang membatalkan reservasi pending
// yang melewati batas waktu konfirmasi.
func (s *LifecycleService) StartPendingSweeper(holdMinutes int, interval time.Duration) {
	if holdMinutes <= 0 {
		return
	}
	go s.pendingSweeper(holdMinutes, interval)
	utils.InfoLogger.Printf("Pending reservation sweeper started (hold=%dm)", holdMinutes)
}

// Stop menghentikan sweeper.
func (s *LifecycleService) Stop() {
	close(s.stop)
}

func (s *LifecycleService) pendingSweeper(holdMinutes int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepStalePending(holdMinutes)
		case <-s.stop:
			return
		}
	}
}

// SweepStalePending membatalkan pending yang dibuat lebih lama dari hold window.
func (s *LifecycleService) SweepStalePending(holdMinutes int) {
	cutoff := time.Now().Add(-time.Duration(holdMinutes) * time.Minute)

	var stale []models.Reservation
	err := s.db.Where("status = ? AND created_at < ?", models.ReservationStatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		utils.ErrorLogger.Printf("Error sweeping stale pending reservations: %v", err)
		return
	}

	for _, r := range stale {
		if _, err := s.Cancel(r.ID); err != nil {
			utils.ErrorLogger.Printf("Error cancelling stale reservation %s: %v", r.Code, err)
		}
	}
}
