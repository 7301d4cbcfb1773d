package models

import "time"

// Status meja
const (
	TableStatusAvailable   = "available"
	TableStatusOccupied    = "occupied"
	TableStatusReserved    = "reserved"
	TableStatusMaintenance = "maintenance"
)

type Table struct {
	ID                 uint                `gorm:"primaryKey"`
	Name               string              `gorm:"type:varchar(100);not null"`
	Capacity           int                 `gorm:"not null;default:2"`
	Status             string              `gorm:"type:varchar(50);not null;default:'available'"`
	AvailabilityBlocks []AvailabilityBlock `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt          time.Time           `gorm:"not null"`
	UpdatedAt          time.Time           `gorm:"not null"`
}
