package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TimeWindowList menyimpan daftar jendela "HH:mm-HH:mm" sebagai kolom JSON text
type TimeWindowList []string

func (l TimeWindowList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *TimeWindowList) Scan(value interface{}) error {
	if value == nil {
		*l = TimeWindowList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for TimeWindowList")
	}
}

// AvailabilityBlock -> satu tanggal dengan daftar jendela buka untuk satu meja
type AvailabilityBlock struct {
	ID        uint           `gorm:"primaryKey"`
	TableID   uint           `gorm:"not null;index:idx_block_table_date"`
	Date      string         `gorm:"type:varchar(10);not null;index:idx_block_table_date"`
	Times     TimeWindowList `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}
