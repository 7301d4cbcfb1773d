package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

func newTestConfig() models.PolicyConfig {
	cfg := DefaultPolicyConfig()
	cfg.MaxReservationsPerUser = 2
	cfg.ReservationLimitHours = 24
	cfg.MinIntervalMinutes = 30
	cfg.OpeningHour = "10:00"
	cfg.ClosingHour = "22:00"
	return cfg
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func proposal(date, clock string) ProposedReservation {
	return ProposedReservation{TableID: 1, UserID: 7, Date: date, Time: clock}
}

func TestEvaluatePolicyOperatingHours(t *testing.T) {
	cfg := newTestConfig()

	result := EvaluatePolicy(proposal("2024-05-01", "09:00"), nil, cfg, fixedNow())
	assert.False(t, result.Allowed)
	assert.True(t, errors.Is(result.Reason, ErrOutsideHours))

	// Jam tutup bersifat eksklusif
	result = EvaluatePolicy(proposal("2024-05-01", "22:00"), nil, cfg, fixedNow())
	assert.False(t, result.Allowed)
	assert.True(t, errors.Is(result.Reason, ErrOutsideHours))

	result = EvaluatePolicy(proposal("2024-05-01", "10:00"), nil, cfg, fixedNow())
	assert.True(t, result.Allowed)

	// Rule dimatikan -> jam apapun lolos
	cfg.EnforceOperatingHours = false
	result = EvaluatePolicy(proposal("2024-05-01", "09:00"), nil, cfg, fixedNow())
	assert.True(t, result.Allowed)
}

func TestEvaluatePolicyCap(t *testing.T) {
	cfg := newTestConfig()
	history := []models.Reservation{
		{UserID: 7, Date: "2024-05-01", Time: "13:00", Status: models.ReservationStatusConfirmed},
		{UserID: 7, Date: "2024-05-01", Time: "19:00", Status: models.ReservationStatusPending},
	}

	result := EvaluatePolicy(proposal("2024-05-02", "11:00"), history, cfg, fixedNow())
	assert.False(t, result.Allowed)
	assert.True(t, errors.Is(result.Reason, ErrCapExceeded))

	// Reservasi cancelled tidak dihitung
	history[1].Status = models.ReservationStatusCancelled
	result = EvaluatePolicy(proposal("2024-05-02", "11:00"), history, cfg, fixedNow())
	assert.True(t, result.Allowed)

	// Reservasi lama di luar window tidak dihitung
	history[1].Status = models.ReservationStatusConfirmed
	history[1].Date = "2024-04-01"
	result = EvaluatePolicy(proposal("2024-05-02", "11:00"), history, cfg, fixedNow())
	assert.True(t, result.Allowed)
}

func TestEvaluatePolicySpacingBoundary(t *testing.T) {
	cfg := newTestConfig()
	history := []models.Reservation{
		{UserID: 7, TableID: 2, Date: "2024-05-01", Time: "18:00", Status: models.ReservationStatusConfirmed},
	}

	// 20 menit setelah 18:00 -> terlalu dekat, meja manapun
	result := EvaluatePolicy(proposal("2024-05-01", "18:20"), history, cfg, fixedNow())
	assert.False(t, result.Allowed)
	assert.True(t, errors.Is(result.Reason, ErrTooSoon))

	// Tepat 30 menit -> boleh (batas inklusif di sisi non-konflik)
	result = EvaluatePolicy(proposal("2024-05-01", "18:30"), history, cfg, fixedNow())
	assert.True(t, result.Allowed)
}

func TestEvaluatePolicyRuleOrder(t *testing.T) {
	// Proposal yang melanggar semua rule harus mengembalikan alasan
	// rule pertama (jam operasional)
	cfg := newTestConfig()
	cfg.MaxReservationsPerUser = 1
	history := []models.Reservation{
		{UserID: 7, Date: "2024-05-01", Time: "23:10", Status: models.ReservationStatusConfirmed},
	}

	result := EvaluatePolicy(proposal("2024-05-01", "23:00"), history, cfg, fixedNow())
	assert.False(t, result.Allowed)
	assert.True(t, errors.Is(result.Reason, ErrOutsideHours))
}

func TestEvaluatePolicyToggleIdempotent(t *testing.T) {
	cfg := newTestConfig()
	inputs := []ProposedReservation{
		proposal("2024-05-01", "09:00"),
		proposal("2024-05-01", "10:00"),
		proposal("2024-05-01", "21:30"),
		proposal("2024-05-01", "22:00"),
	}

	before := make([]bool, len(inputs))
	for i, in := range inputs {
		before[i] = EvaluatePolicy(in, nil, cfg, fixedNow()).Allowed
	}

	// Matikan lalu hidupkan kembali dengan nilai yang sama
	cfg.EnforceOperatingHours = false
	cfg.EnforceOperatingHours = true

	for i, in := range inputs {
		assert.Equal(t, before[i], EvaluatePolicy(in, nil, cfg, fixedNow()).Allowed)
	}
}

func newPolicyTestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.PolicyConfig{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestPolicyStoreSeedsDefault(t *testing.T) {
	db := newPolicyTestDB(t)

	store, err := NewPolicyStore(db)
	assert.NoError(t, err)

	cfg := store.Current()
	assert.Equal(t, DefaultPolicyConfig().OpeningHour, cfg.OpeningHour)
	assert.NotZero(t, cfg.ID)
}

func TestPolicyStoreUpdateSwapsSnapshot(t *testing.T) {
	db := newPolicyTestDB(t)
	store, err := NewPolicyStore(db)
	assert.NoError(t, err)

	snapshotBefore := store.Current()

	next := snapshotBefore
	next.MaxReservationsPerUser = 5
	updated, err := store.Update(next)
	assert.NoError(t, err)
	assert.Equal(t, 5, updated.MaxReservationsPerUser)
	assert.Equal(t, 5, store.Current().MaxReservationsPerUser)

	// Snapshot lama tidak berubah
	assert.NotEqual(t, snapshotBefore.MaxReservationsPerUser, 5)
}

func TestPolicyStoreUpdateRejectsInvalid(t *testing.T) {
	db := newPolicyTestDB(t)
	store, err := NewPolicyStore(db)
	assert.NoError(t, err)

	bad := store.Current()
	bad.OpeningHour = "23:00"
	bad.ClosingHour = "10:00"
	_, err = store.Update(bad)
	assert.True(t, errors.Is(err, ErrValidation))

	bad = store.Current()
	bad.OpeningHour = "9am"
	_, err = store.Update(bad)
	assert.True(t, errors.Is(err, ErrValidation))
}
