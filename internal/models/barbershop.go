package models

import "time"

type Barbershop struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Active bool `gorm:"default:true" json:"active"`

	// Exclusive marks a single-barber shop: bookings carry no barber
	// reference and the whole shop is one collision timeline.
	Exclusive bool `gorm:"default:false" json:"exclusive"`

	// StripeEnabled shops charge online at checkout; everything else
	// settles in person.
	StripeEnabled bool `gorm:"default:false" json:"stripe_enabled"`

	Timezone string `gorm:"size:64" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
