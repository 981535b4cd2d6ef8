package model

import "time"

type Booking struct {
	ID              string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID          string        `json:"userId" bson:"user_id" validate:"required"`
	RoomID          string        `json:"roomId" bson:"room_id" validate:"required,mongodb"`
	CheckIn         time.Time     `json:"checkIn" bson:"check_in" validate:"required"`
	CheckOut        time.Time     `json:"checkOut" bson:"check_out" validate:"required,gtfield=CheckIn"`
	TotalPrice      float64       `json:"totalPrice" bson:"total_price" validate:"min=0"`
	SpecialRequests string        `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Status          BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" bson:"payment_status" validate:"required,oneof=pending paid refunded"`
	CheckoutDate    *time.Time    `json:"checkoutDate,omitempty" bson:"checkout_date,omitempty"`
	// ConfirmationCode is derived, never stored; it is minted when the
	// reservation is created.
	ConfirmationCode string    `json:"confirmationCode,omitempty" bson:"-"`
	CreatedAt        time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

// Nights returns the whole number of nights covered by the stay, rounding
// partial days up. Total price is always nights times the room's nightly
// price, computed once at reservation time.
func (b *Booking) Nights() int {
	d := b.CheckOut.Sub(b.CheckIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		nights++
	}
	return nights
}

// ReservationRequest is the client payload for creating a booking. The
// requesting user comes from the bearer token, never from the body.
type ReservationRequest struct {
	RoomID          string    `json:"roomId" validate:"required,mongodb"`
	CheckIn         time.Time `json:"checkIn" validate:"required"`
	CheckOut        time.Time `json:"checkOut" validate:"required"`
	SpecialRequests string    `json:"specialRequests,omitempty" validate:"omitempty,max=1000"`
}

// BookingView is a booking decorated with a summary of its referenced room
// for list responses.
type BookingView struct {
	Booking
	Room *RoomSummary `json:"room,omitempty"`
}
