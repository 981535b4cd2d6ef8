package model

import (
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusPending},
		{StatusConfirmed, StatusPending},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusCompleted, StatusConfirmed},
		{StatusCompleted, StatusCancelled},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalAndOccupying(t *testing.T) {
	for _, s := range []BookingStatus{StatusCancelled, StatusCompleted} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
		if s.Occupying() {
			t.Errorf("terminal status %s must not occupy a room", s)
		}
	}
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed} {
		if s.Terminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
		if !s.Occupying() {
			t.Errorf("expected %s to occupy a room", s)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if BookingStatus("archived").Valid() {
		t.Error("unknown booking status must not be valid")
	}
	if PaymentStatus("chargeback").Valid() {
		t.Error("unknown payment status must not be valid")
	}
	if !PaymentRefunded.Valid() {
		t.Error("refunded must be a valid payment status")
	}
}

func TestNights(t *testing.T) {
	base := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		checkOut time.Time
		want     int
	}{
		{"exactly one night", base.Add(24 * time.Hour), 1},
		{"exactly two nights", base.Add(48 * time.Hour), 2},
		{"partial night rounds up", base.Add(36 * time.Hour), 2},
		{"just over one night", base.Add(25 * time.Hour), 2},
		{"under one night", base.Add(6 * time.Hour), 1},
	}

	for _, tc := range cases {
		b := &Booking{CheckIn: base, CheckOut: tc.checkOut}
		if got := b.Nights(); got != tc.want {
			t.Errorf("%s: expected %d nights, got %d", tc.name, tc.want, got)
		}
	}
}
