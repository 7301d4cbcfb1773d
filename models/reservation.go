package models

import "time"

// Status reservasi
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// Reservation -> satu slot (meja, tanggal, jam) milik satu user.
// SlotKey diisi "<table_id>|<date>|<time>" selama reservasi aktif dan
// dikosongkan saat dibatalkan, sehingga unique index melepas slot untuk
// pemesanan ulang tanpa menghapus barisnya.
type Reservation struct {
	ID             uint      `gorm:"primaryKey"`
	Code           string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	TableID        uint      `gorm:"not null;index"`
	Table          Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	UserID         uint      `gorm:"not null;index"`
	User           User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Date           string    `gorm:"type:varchar(10);not null"`
	Time           string    `gorm:"type:varchar(5);not null"`
	SlotKey        *string   `gorm:"type:varchar(64);uniqueIndex"`
	CustomerName   string    `gorm:"type:varchar(255);not null"`
	CustomerEmail  string    `gorm:"type:varchar(255);not null"`
	Observations   string    `gorm:"type:text"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"`
	HiddenFromUser bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}
