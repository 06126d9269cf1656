package models

import "time"

// WaitlistEntry is one customer's place in the FIFO queue for a
// (barbershop, barber, service, day) tuple. Ordering is created_at
// ascending with id as the tiebreak.
type WaitlistEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	BarbershopID uint    `gorm:"index:idx_waitlist_tuple" json:"barbershop_id"`
	BarberID     *uint   `gorm:"index:idx_waitlist_tuple" json:"barber_id"`
	Barber       *Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`
	ServiceID    uint    `gorm:"index:idx_waitlist_tuple" json:"service_id"`

	// DateDay is the target calendar day, date-only, YYYY-MM-DD in the
	// shop's timezone.
	DateDay string `gorm:"size:10;index:idx_waitlist_tuple" json:"date_day"`

	Status string `gorm:"size:20;default:'active';index:idx_waitlist_tuple" json:"status"`

	FulfilledBookingID *uint      `json:"fulfilled_booking_id"`
	FulfilledSeenAt    *time.Time `json:"fulfilled_seen_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
