package models

import "time"

// PolicyConfig -> aturan booking yang dikonfigurasi admin. Hanya satu baris
// yang aktif; engine membaca snapshot-nya, tidak pernah menulis.
type PolicyConfig struct {
	ID                     uint      `gorm:"primaryKey"`
	MaxReservationsPerUser int       `gorm:"not null"`
	ReservationLimitHours  int       `gorm:"not null"`
	MinIntervalMinutes     int       `gorm:"not null"`
	OpeningHour            string    `gorm:"type:varchar(5);not null"`
	ClosingHour            string    `gorm:"type:varchar(5);not null"`
	EnforceOperatingHours  bool      `gorm:"not null;default:true"`
	EnforceCap             bool      `gorm:"not null;default:true"`
	EnforceSpacing         bool      `gorm:"not null;default:true"`
	AutoConfirm            bool      `gorm:"not null;default:false"`
	CreatedAt              time.Time `gorm:"not null"`
	UpdatedAt              time.Time `gorm:"not null"`
}
