package services

import (
	"fmt"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// Granularitas slot pada peta ketersediaan
const slotStepMinutes = 30

// AvailabilityService menjawab "apakah slot X terbuka?" dan mengelola
// daftar jendela buka per meja.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// ValidateWindows menolak daftar jendela yang formatnya salah, start >= end,
// atau saling tumpang tindih.
func ValidateWindows(times models.TimeWindowList) error {
	type span struct{ start, end int }
	spans := make([]span, 0, len(times))
	for _, w := range times {
		start, end, err := utils.ParseWindow(w)
		if err != nil {
			return Validation(err.Error())
		}
		spans = append(spans, span{start, end})
	}
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if utils.IntervalsOverlap(spans[i].start, spans[i].end, spans[j].start, spans[j].end) {
				return Validation(fmt.Sprintf("windows %s and %s overlap", times[i], times[j]))
			}
		}
	}
	return nil
}

// IsSlotOpen -> slot terbuka hanya jika ada jendela w pada tanggal tsb dengan
// w.start <= t < w.end. Tanggal tanpa block berarti tutup (opt-in eksplisit).
func (s *AvailabilityService) IsSlotOpen(tableID uint, date, clock string) (bool, error) {
	slotMin, err := utils.ClockMinutes(clock)
	if err != nil {
		return false, Validation(err.Error())
	}
	if _, err := utils.ParseDateString(date); err != nil {
		return false, Validation(err.Error())
	}

	var blocks []models.AvailabilityBlock
	if err := s.db.Where("table_id = ? AND date = ?", tableID, date).Find(&blocks).Error; err != nil {
		return false, ErrUnknown
	}

	for _, block := range blocks {
		for _, w := range block.Times {
			start, end, err := utils.ParseWindow(w)
			if err != nil {
				continue
			}
			if start <= slotMin && slotMin < end {
				return true, nil
			}
		}
	}
	return false, nil
}

// ReplaceBlocks mengganti daftar jendela meja untuk tanggal-tanggal yang
// dikirim (last-writer-wins per tanggal, tanpa merge). Jendela lama pada
// tanggal tersebut dibuang dan jumlahnya dicatat sebagai warning; tanggal
// yang tidak ikut dikirim tidak tersentuh.
func (s *AvailabilityService) ReplaceBlocks(tableID uint, blocks []models.AvailabilityBlock) error {
	windowsByDate := make(map[string]models.TimeWindowList)
	dates := make([]string, 0, len(blocks))
	for i := range blocks {
		if _, err := utils.ParseDateString(blocks[i].Date); err != nil {
			return Validation(err.Error())
		}
		if _, seen := windowsByDate[blocks[i].Date]; !seen {
			dates = append(dates, blocks[i].Date)
		}
		windowsByDate[blocks[i].Date] = append(windowsByDate[blocks[i].Date], blocks[i].Times...)
		blocks[i].TableID = tableID
		blocks[i].ID = 0
	}

	// Non-overlap berlaku untuk gabungan seluruh jendela satu tanggal,
	// termasuk yang terpecah di beberapa block
	for _, date := range dates {
		if err := ValidateWindows(windowsByDate[date]); err != nil {
			return err
		}
	}

	if len(blocks) == 0 {
		return nil
	}

	var dropped int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AvailabilityBlock{}).
			Where("table_id = ? AND date IN ?", tableID, dates).Count(&dropped).Error; err != nil {
			return err
		}
		if err := tx.Where("table_id = ? AND date IN ?", tableID, dates).
			Delete(&models.AvailabilityBlock{}).Error; err != nil {
			return err
		}
		return tx.Create(&blocks).Error
	})
	if err != nil {
		return ErrUnknown
	}

	if dropped > 0 {
		utils.InfoLogger.Printf("Availability for table %d replaced on %d date(s): %d previous block(s) dropped, %d submitted", tableID, len(dates), dropped, len(blocks))
	}
	return nil
}

// CheckAvailability menyusun peta jam -> terbuka/tertutup untuk satu tanggal,
// dengan langkah 30 menit di dalam jendela buka. Slot yang sudah dipesan
// (reservasi non-cancelled) ditandai tertutup.
func (s *AvailabilityService) CheckAvailability(tableID uint, date string) (map[string]bool, error) {
	if _, err := utils.ParseDateString(date); err != nil {
		return nil, Validation(err.Error())
	}

	var blocks []models.AvailabilityBlock
	if err := s.db.Where("table_id = ? AND date = ?", tableID, date).Find(&blocks).Error; err != nil {
		return nil, ErrUnknown
	}

	slots := make(map[string]bool)
	for _, block := range blocks {
		for _, w := range block.Times {
			start, end, err := utils.ParseWindow(w)
			if err != nil {
				continue
			}
			for t := start; t < end; t += slotStepMinutes {
				slots[fmt.Sprintf("%02d:%02d", t/60, t%60)] = true
			}
		}
	}

	if len(slots) == 0 {
		return slots, nil
	}

	var booked []models.Reservation
	err := s.db.Where("table_id = ? AND date = ? AND status <> ?", tableID, date, models.ReservationStatusCancelled).
		Find(&booked).Error
	if err != nil {
		return nil, ErrUnknown
	}
	for _, r := range booked {
		minute, err := utils.ClockMinutes(r.Time)
		if err != nil {
			continue
		}
		// Reservasi di luar grid (mis. 19:15) menutup step yang memuatnya
		snapped := minute - minute%slotStepMinutes
		key := fmt.Sprintf("%02d:%02d", snapped/60, snapped%60)
		if _, open := slots[key]; open {
			slots[key] = false
		}
	}

	return slots, nil
}
