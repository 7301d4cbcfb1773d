package services

import (
	"sync/atomic"
	"time"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// DefaultPolicyConfig adalah satu-satunya sumber nilai default kebijakan.
func DefaultPolicyConfig() models.PolicyConfig {
	return models.PolicyConfig{
		MaxReservationsPerUser: 3,
		ReservationLimitHours:  24,
		MinIntervalMinutes:     60,
		OpeningHour:            "10:00",
		ClosingHour:            "22:00",
		EnforceOperatingHours:  true,
		EnforceCap:             true,
		EnforceSpacing:         true,
		AutoConfirm:            false,
	}
}

// PolicyStore memegang snapshot kebijakan aktif. Pembaca mendapat copy lewat
// pointer swap atomik, jadi evaluasi tidak pernah membaca state yang sedang
// ditulis admin.
type PolicyStore struct {
	db      *gorm.DB
	current atomic.Pointer[models.PolicyConfig]
}

// NewPolicyStore memuat konfigurasi aktif dari database, atau menanam default
// kalau belum ada.
func NewPolicyStore(db *gorm.DB) (*PolicyStore, error) {
	store := &PolicyStore{db: db}

	var cfg models.PolicyConfig
	err := db.Order("id").First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = DefaultPolicyConfig()
		if err := db.Create(&cfg).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	store.current.Store(&cfg)
	return store, nil
}

// Current mengembalikan snapshot kebijakan aktif (by value).
func (s *PolicyStore) Current() models.PolicyConfig {
	return *s.current.Load()
}

// Update memvalidasi, menyimpan, lalu menukar snapshot. Reservasi yang sudah
// ada tidak tersentuh; hanya booking berikutnya yang memakai nilai baru.
func (s *PolicyStore) Update(cfg models.PolicyConfig) (models.PolicyConfig, error) {
	if err := validatePolicyConfig(cfg); err != nil {
		return models.PolicyConfig{}, err
	}

	existing := s.Current()
	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	if err := s.db.Save(&cfg).Error; err != nil {
		return models.PolicyConfig{}, ErrUnknown
	}

	s.current.Store(&cfg)
	return cfg, nil
}

func validatePolicyConfig(cfg models.PolicyConfig) error {
	open, err := utils.ClockMinutes(cfg.OpeningHour)
	if err != nil {
		return Validation("opening hour: " + err.Error())
	}
	closing, err := utils.ClockMinutes(cfg.ClosingHour)
	if err != nil {
		return Validation("closing hour: " + err.Error())
	}
	if open >= closing {
		return Validation("opening hour must be before closing hour")
	}
	if cfg.MaxReservationsPerUser < 1 {
		return Validation("max reservations per user must be at least 1")
	}
	if cfg.ReservationLimitHours < 1 {
		return Validation("reservation limit hours must be at least 1")
	}
	if cfg.MinIntervalMinutes < 0 {
		return Validation("min interval minutes must not be negative")
	}
	return nil
}

// ProposedReservation adalah input evaluasi kebijakan.
type ProposedReservation struct {
	TableID uint
	UserID  uint
	Date    string
	Time    string
}

// PolicyResult -> hasil evaluasi; Reason terisi saat Allowed == false.
type PolicyResult struct {
	Allowed bool
	Reason  error
}

// EvaluatePolicy menjalankan tiga keluarga aturan dengan urutan tetap:
// jam operasional, cap per user, lalu jarak antar reservasi. Kegagalan
// pertama yang menang, supaya pesan error deterministik.
func EvaluatePolicy(proposed ProposedReservation, history []models.Reservation, cfg models.PolicyConfig, now time.Time) PolicyResult {
	slot, err := utils.SlotInstant(proposed.Date, proposed.Time)
	if err != nil {
		return PolicyResult{Allowed: false, Reason: Validation(err.Error())}
	}

	if cfg.EnforceOperatingHours {
		slotMin, _ := utils.ClockMinutes(proposed.Time)
		openMin, _ := utils.ClockMinutes(cfg.OpeningHour)
		closeMin, _ := utils.ClockMinutes(cfg.ClosingHour)
		if slotMin < openMin || slotMin >= closeMin {
			return PolicyResult{Allowed: false, Reason: ErrOutsideHours}
		}
	}

	if cfg.EnforceCap {
		windowStart := now.Add(-time.Duration(cfg.ReservationLimitHours) * time.Hour)
		count := 0
		for _, r := range history {
			if r.Status == models.ReservationStatusCancelled {
				continue
			}
			instant, err := utils.SlotInstant(r.Date, r.Time)
			if err != nil {
				continue
			}
			if instant.After(windowStart) {
				count++
			}
		}
		if count >= cfg.MaxReservationsPerUser {
			return PolicyResult{Allowed: false, Reason: ErrCapExceeded}
		}
	}

	if cfg.EnforceSpacing {
		for _, r := range history {
			if r.Status == models.ReservationStatusCancelled {
				continue
			}
			instant, err := utils.SlotInstant(r.Date, r.Time)
			if err != nil {
				continue
			}
			diff := utils.MinutesBetween(instant, slot)
			if diff < 0 {
				diff = -diff
			}
			// Batas tepat (diff == interval) diperbolehkan
			if diff < cfg.MinIntervalMinutes {
				return PolicyResult{Allowed: false, Reason: ErrTooSoon}
			}
		}
	}

	return PolicyResult{Allowed: true}
}
