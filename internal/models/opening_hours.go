package models

import "time"

// OpeningHours holds the open window for one weekday, in minutes since
// local midnight. At most one row per (barbershop, weekday); a missing
// row means closed. CloseMinute may be 1440 (end of day).
type OpeningHours struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"uniqueIndex:idx_opening_hours_shop_weekday" json:"barbershop_id"`

	Weekday int `gorm:"uniqueIndex:idx_opening_hours_shop_weekday" json:"weekday"` // 0=Sunday .. 6=Saturday

	OpenMinute  int  `json:"open_minute"`
	CloseMinute int  `json:"close_minute"`
	Closed      bool `json:"closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
