package model

// BookingStatus is the lifecycle state of a booking. A room is held from the
// moment a booking is created, so both pending and confirmed count as
// occupying statuses.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// PaymentStatus tracks the payment side of a booking independently of its
// lifecycle status.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// statusTransitions is the only source of truth for permitted lifecycle
// edges. Anything not listed here is an invalid transition.
var statusTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Occupying reports whether a booking in status s holds its room, keeping the
// room's availability flag false.
func (s BookingStatus) Occupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo reports whether the edge s -> next is in the transition
// table.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return statusTransitions[s][next]
}

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// OccupyingStatuses lists the statuses that keep a room unavailable; used for
// repository filters.
func OccupyingStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed}
}
