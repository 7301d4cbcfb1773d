package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// slotLocks memberi satu mutex per kunci (meja, tanggal, jam), supaya dua
// request untuk slot yang sama terserialisasi tanpa lock global.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (s *slotLocks) acquire(key string) *sync.Mutex {
	s.mu.Lock()
	lock, exists := s.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock
}

// BookingService adalah conflict resolver: memeriksa ketersediaan, bentrok
// reservasi, dan kebijakan, lalu menulis reservasi secara atomik per slot.
type BookingService struct {
	db           *gorm.DB
	availability *AvailabilityService
	policies     *PolicyStore
	slots        slotLocks
	now          func() time.Time
}

func NewBookingService(db *gorm.DB, availability *AvailabilityService, policies *PolicyStore) *BookingService {
	return &BookingService{
		db:           db,
		availability: availability,
		policies:     policies,
		slots:        slotLocks{locks: make(map[string]*sync.Mutex)},
		now:          time.Now,
	}
}

// BookingInput adalah permintaan booking dari controller.
type BookingInput struct {
	TableID       uint
	UserID        uint
	Date          string
	Time          string
	CustomerName  string
	CustomerEmail string
	Observations  string
}

// SlotKey menyusun kunci unik "<table>|<date>|<time>" untuk satu slot.
func SlotKey(tableID uint, date, clock string) string {
	return fmt.Sprintf("%d|%s|%s", tableID, date, clock)
}

// Book menjalankan transaksi booking:
// validasi format -> load meja -> slot terbuka -> belum dipesan -> kebijakan
// -> simpan. Langkah pengecekan + penulisan dipegang lock per-slot, dengan
// unique index slot_key sebagai backstop di lapisan persistence.
func (s *BookingService) Book(input BookingInput) (*models.Reservation, error) {
	if _, err := utils.ParseDateString(input.Date); err != nil {
		return nil, Validation(err.Error())
	}
	if _, _, err := utils.ParseClock(input.Time); err != nil {
		return nil, Validation(err.Error())
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, Validation("customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, Validation("customer email is required")
	}

	var table models.Table
	if err := s.db.First(&table, input.TableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, ErrUnknown
	}
	if table.Status == models.TableStatusMaintenance {
		return nil, ErrTableNotFound
	}

	key := SlotKey(input.TableID, input.Date, input.Time)
	lock := s.slots.acquire(key)
	defer lock.Unlock()

	open, err := s.availability.IsSlotOpen(input.TableID, input.Date, input.Time)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrSlotUnavailable
	}

	var conflicting int64
	err = s.db.Model(&models.Reservation{}).
		Where("table_id = ? AND date = ? AND time = ? AND status <> ?",
			input.TableID, input.Date, input.Time, models.ReservationStatusCancelled).
		Count(&conflicting).Error
	if err != nil {
		return nil, ErrUnknown
	}
	if conflicting > 0 {
		return nil, ErrDoubleBooking
	}

	cfg := s.policies.Current()
	var history []models.Reservation
	err = s.db.Where("user_id = ? AND status <> ?", input.UserID, models.ReservationStatusCancelled).
		Find(&history).Error
	if err != nil {
		return nil, ErrUnknown
	}

	proposed := ProposedReservation{
		TableID: input.TableID,
		UserID:  input.UserID,
		Date:    input.Date,
		Time:    input.Time,
	}
	result := EvaluatePolicy(proposed, history, cfg, s.now())
	if !result.Allowed {
		return nil, result.Reason
	}

	status := models.ReservationStatusPending
	if cfg.AutoConfirm {
		status = models.ReservationStatusConfirmed
	}

	reservation := models.Reservation{
		Code:          uuid.NewString(),
		TableID:       input.TableID,
		UserID:        input.UserID,
		Date:          input.Date,
		Time:          input.Time,
		SlotKey:       &key,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Observations:  input.Observations,
		Status:        status,
	}
	if err := s.db.Create(&reservation).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDoubleBooking
		}
		return nil, ErrUnknown
	}

	utils.InfoLogger.Printf("Reservation %s created: table=%d slot=%s %s status=%s",
		reservation.Code, reservation.TableID, reservation.Date, reservation.Time, reservation.Status)
	return &reservation, nil
}

// isDuplicateKey mendeteksi pelanggaran unique index lintas driver
// (mysql "Duplicate entry", sqlite "UNIQUE constraint failed").
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
