package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint       `gorm:"index:idx_bookings_shop_start" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// BarberID is null in exclusive (single-barber) shops.
	BarberID *uint   `gorm:"index:idx_bookings_shop_start" json:"barber_id"`
	Barber   *Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// ServiceID is the primary (first) service; Services carries the
	// full list for multi-service bookings.
	ServiceID uint      `json:"service_id"`
	Services  []Service `gorm:"many2many:booking_services;" json:"services,omitempty"`

	// Aggregate over all services on the booking.
	DurationMin int   `json:"duration_min"`
	PriceCents  int64 `json:"price_cents"`

	// Half-open interval [StartAt, EndAt) on the shop(+barber) timeline.
	StartAt time.Time `gorm:"index:idx_bookings_shop_start" json:"start_at"`
	EndAt   time.Time `json:"end_at"`

	PaymentMethod string  `gorm:"size:20" json:"payment_method"`
	PaymentStatus string  `gorm:"size:20" json:"payment_status"`
	ChargeRef     *string `gorm:"size:255;index" json:"charge_ref,omitempty"`

	Notes string `gorm:"size:255" json:"notes"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
