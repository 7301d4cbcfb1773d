package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

func newAvailabilityTestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Table{},
		&models.AvailabilityBlock{},
		&models.Reservation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedTable(t *testing.T, db *gorm.DB) models.Table {
	table := models.Table{Name: "T1", Capacity: 4, Status: models.TableStatusAvailable}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	return table
}

func TestValidateWindows(t *testing.T) {
	tests := []struct {
		name    string
		times   models.TimeWindowList
		wantErr bool
	}{
		{"single window", models.TimeWindowList{"18:00-20:00"}, false},
		{"touching windows are not overlap", models.TimeWindowList{"18:00-20:00", "20:00-22:00"}, false},
		{"overlapping windows", models.TimeWindowList{"18:00-20:00", "19:00-21:00"}, true},
		{"start equals end", models.TimeWindowList{"18:00-18:00"}, true},
		{"start after end", models.TimeWindowList{"20:00-18:00"}, true},
		{"bad format", models.TimeWindowList{"6pm-8pm"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWindows(tc.times)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsSlotOpen(t *testing.T) {
	db := newAvailabilityTestDB(t)
	table := seedTable(t, db)
	svc := NewAvailabilityService(db)

	err := svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"18:00-21:00"}},
	})
	assert.NoError(t, err)

	open, err := svc.IsSlotOpen(table.ID, "2024-05-01", "18:00")
	assert.NoError(t, err)
	assert.True(t, open)

	open, err = svc.IsSlotOpen(table.ID, "2024-05-01", "20:30")
	assert.NoError(t, err)
	assert.True(t, open)

	// Akhir jendela eksklusif
	open, err = svc.IsSlotOpen(table.ID, "2024-05-01", "21:00")
	assert.NoError(t, err)
	assert.False(t, open)

	// Tanggal tanpa block berarti tutup
	open, err = svc.IsSlotOpen(table.ID, "2024-05-02", "18:00")
	assert.NoError(t, err)
	assert.False(t, open)
}

func TestReplaceBlocksRejectsOverlap(t *testing.T) {
	db := newAvailabilityTestDB(t)
	table := seedTable(t, db)
	svc := NewAvailabilityService(db)

	err := svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"18:00-20:00", "19:30-21:00"}},
	})
	assert.True(t, errors.Is(err, ErrValidation))

	// Daftar lama tidak boleh tersentuh kalau validasi gagal
	var count int64
	db.Model(&models.AvailabilityBlock{}).Where("table_id = ?", table.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReplaceBlocksRejectsOverlapAcrossBlocksSameDate(t *testing.T) {
	db := newAvailabilityTestDB(t)
	table := seedTable(t, db)
	svc := NewAvailabilityService(db)

	// Jendela bentrok yang dipecah ke dua block pada tanggal yang sama
	// tetap harus ditolak
	err := svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"18:00-20:00"}},
		{Date: "2024-05-01", Times: models.TimeWindowList{"19:00-21:00"}},
	})
	assert.True(t, errors.Is(err, ErrValidation))

	var count int64
	db.Model(&models.AvailabilityBlock{}).Where("table_id = ?", table.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Jendela bersentuhan di dua block tidak dianggap bentrok
	err = svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"18:00-20:00"}},
		{Date: "2024-05-01", Times: models.TimeWindowList{"20:00-22:00"}},
	})
	assert.NoError(t, err)
}

func TestReplaceBlocksLastWriterWinsPerDate(t *testing.T) {
	db := newAvailabilityTestDB(t)
	table := seedTable(t, db)
	svc := NewAvailabilityService(db)

	err := svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"12:00-14:00"}},
		{Date: "2024-05-02", Times: models.TimeWindowList{"18:00-21:00"}},
	})
	assert.NoError(t, err)

	// Penulis kedua hanya mengirim satu tanggal; jendela tanggal itu
	// diganti total, tanggal lain tidak tersentuh
	err = svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"13:00-15:00"}},
	})
	assert.NoError(t, err)

	open, err := svc.IsSlotOpen(table.ID, "2024-05-01", "13:30")
	assert.NoError(t, err)
	assert.True(t, open)

	// Jendela lama tanggal yang diganti ikut hilang
	open, err = svc.IsSlotOpen(table.ID, "2024-05-01", "12:30")
	assert.NoError(t, err)
	assert.False(t, open)

	open, err = svc.IsSlotOpen(table.ID, "2024-05-02", "19:00")
	assert.NoError(t, err)
	assert.True(t, open)
}

func TestCheckAvailability(t *testing.T) {
	db := newAvailabilityTestDB(t)
	table := seedTable(t, db)
	svc := NewAvailabilityService(db)

	// Tanpa block -> peta kosong, semua tertutup
	slots, err := svc.CheckAvailability(table.ID, "2024-05-01")
	assert.NoError(t, err)
	assert.Empty(t, slots)

	err = svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"18:00-20:00"}},
	})
	assert.NoError(t, err)

	slots, err = svc.CheckAvailability(table.ID, "2024-05-01")
	assert.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"18:00": true,
		"18:30": true,
		"19:00": true,
		"19:30": true,
	}, slots)

	// Slot yang sudah dipesan ditandai tertutup
	key := SlotKey(table.ID, "2024-05-01", "19:00")
	reservation := models.Reservation{
		Code: "res-1", TableID: table.ID, UserID: 1,
		Date: "2024-05-01", Time: "19:00", SlotKey: &key,
		CustomerName: "Dina", CustomerEmail: "dina@example.com",
		Status: models.ReservationStatusConfirmed,
	}
	assert.NoError(t, db.Create(&reservation).Error)

	slots, err = svc.CheckAvailability(table.ID, "2024-05-01")
	assert.NoError(t, err)
	assert.False(t, slots["19:00"])
	assert.True(t, slots["18:30"])
}

func TestCheckAvailabilityOffGridReservationClosesContainingStep(t *testing.T) {
	db := newAvailabilityTestDB(t)
	table := seedTable(t, db)
	svc := NewAvailabilityService(db)

	err := svc.ReplaceBlocks(table.ID, []models.AvailabilityBlock{
		{Date: "2024-05-01", Times: models.TimeWindowList{"18:00-20:00"}},
	})
	assert.NoError(t, err)

	// Booking menerima jam apapun dalam jendela; 19:15 menutup step 19:00
	key := SlotKey(table.ID, "2024-05-01", "19:15")
	reservation := models.Reservation{
		Code: "res-offgrid", TableID: table.ID, UserID: 1,
		Date: "2024-05-01", Time: "19:15", SlotKey: &key,
		CustomerName: "Dina", CustomerEmail: "dina@example.com",
		Status: models.ReservationStatusPending,
	}
	assert.NoError(t, db.Create(&reservation).Error)

	slots, err := svc.CheckAvailability(table.ID, "2024-05-01")
	assert.NoError(t, err)
	assert.False(t, slots["19:00"])
	assert.True(t, slots["19:30"])
	assert.True(t, slots["18:30"])
}
