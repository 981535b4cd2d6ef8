package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "innkeeper/internal/bookings/errors"
	"innkeeper/internal/bookings/events"
	"innkeeper/internal/bookings/repository"
	"innkeeper/internal/bookings/validator"
	roomserrors "innkeeper/internal/rooms/errors"
	roomsrepo "innkeeper/internal/rooms/repository"
	"innkeeper/pkg/auth"
	"innkeeper/pkg/config"
	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/model"
	"innkeeper/pkg/sanitizer"
	"innkeeper/pkg/sealer"
)

type BookingService interface {
	Reserve(ctx context.Context, requester auth.Principal, req *model.ReservationRequest) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingView, int64, error)
	Cancel(ctx context.Context, id string, requester auth.Principal) (*model.Booking, error)
	Checkout(ctx context.Context, id string) (*model.Booking, error)
	SetStatus(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error)
	SetPaymentStatus(ctx context.Context, id string, payment model.PaymentStatus) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	roomRepo  roomsrepo.RoomRepository
	validator *validator.BookingValidator
	events    events.Publisher
	sealer    *sealer.Sealer
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	roomRepo roomsrepo.RoomRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	sealer *sealer.Sealer,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		roomRepo:  roomRepo,
		validator: validator,
		events:    publisher,
		sealer:    sealer,
		cfg:       cfg,
	}
}

// Reserve creates a booking and takes the room in one atomic step. The
// per-room advisory lock serializes concurrent reservations for the same
// room; the conditional availability flip inside the transaction is the
// backstop that guarantees at most one of them wins even if the lock
// expires mid-flight.
func (s *bookingService) Reserve(ctx context.Context, requester auth.Principal, req *model.ReservationRequest) (*model.Booking, error) {
	if err := s.validator.ValidateReservation(req); err != nil {
		var dateErr validator.DateRangeError
		if errors.As(err, &dateErr) {
			s.cfg.Log.Warn("Reservation date range rejected", "room_id", req.RoomID, "error", err)
			return nil, apperrors.InvalidDateRange(dateErr.Message)
		}
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	booking := &model.Booking{
		UserID:          requester.UserID,
		RoomID:          req.RoomID,
		CheckIn:         req.CheckIn.UTC(),
		CheckOut:        req.CheckOut.UTC(),
		SpecialRequests: sanitizer.SanitizeFreeText(req.SpecialRequests),
		Status:          model.StatusConfirmed,
		PaymentStatus:   model.PaymentPaid,
	}

	if err := s.lockRepo.Acquire(ctx, req.RoomID); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.RoomUnavailable(req.RoomID)
		}
		return nil, apperrors.Internal("Failed to acquire room lock", err)
	}
	defer func() {
		// The request context may already be cancelled by the time the
		// deferred release runs; releasing on a detached context keeps the
		// lock from lingering until its TTL.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if releaseErr := s.lockRepo.Release(releaseCtx, req.RoomID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "room_id", req.RoomID, "error", releaseErr)
		}
	}()

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		room, err := s.roomRepo.FindByID(sessCtx, req.RoomID)
		if err != nil {
			return s.translateRoomLookupErr(err, req.RoomID)
		}

		if err := s.roomRepo.Hold(sessCtx, req.RoomID); err != nil {
			if errors.Is(err, roomserrors.ErrNotAvailable) {
				return apperrors.RoomUnavailable(req.RoomID)
			}
			return apperrors.Internal("Failed to hold room", err)
		}

		booking.TotalPrice = room.Price * float64(booking.Nights())

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reserve room", "room_id", req.RoomID, "user_id", requester.UserID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
		"total_price", booking.TotalPrice,
	)
	s.publish(ctx, events.TypeBookingCreated, booking)

	code, err := s.sealer.SealConfirmation(booking.ID, booking.UserID)
	if err != nil {
		// The booking is committed; a missing confirmation code is not
		// worth failing the request over.
		s.cfg.Log.Warn("Failed to seal confirmation code", "id", booking.ID, "error", err)
	} else {
		booking.ConfirmationCode = code
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views, err := s.attachRoomSummaries(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingView, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by user", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings by user", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views, err := s.attachRoomSummaries(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

// Cancel moves a booking to cancelled, forces its payment to refunded and
// frees the room, all in one transaction. Non-admin callers may only cancel
// their own bookings.
func (s *bookingService) Cancel(ctx context.Context, id string, requester auth.Principal) (*model.Booking, error) {
	booking, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requester.IsAdmin && booking.UserID != requester.UserID {
		s.cfg.Log.Warn("Cancellation denied", "id", id, "user_id", requester.UserID, "owner_id", booking.UserID)
		return nil, apperrors.Forbidden("You may only cancel your own bookings")
	}

	if !booking.Status.CanTransitionTo(model.StatusCancelled) {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("Cannot cancel a %s booking", booking.Status))
	}

	refunded := model.PaymentRefunded
	if err := s.applyTransition(ctx, booking, repository.StatusTransition{
		From:          booking.Status,
		To:            model.StatusCancelled,
		PaymentStatus: &refunded,
	}, true); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "room_id", booking.RoomID, "user_id", requester.UserID)
	s.publish(ctx, events.TypeBookingCancelled, booking)
	return booking, nil
}

// Checkout completes a confirmed booking, stamps the checkout date and
// frees the room.
func (s *bookingService) Checkout(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.StatusConfirmed {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("Cannot check out a %s booking", booking.Status))
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.applyTransition(ctx, booking, repository.StatusTransition{
		From:         model.StatusConfirmed,
		To:           model.StatusCompleted,
		CheckoutDate: &now,
	}, true); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking checked out", "id", id, "room_id", booking.RoomID)
	s.publish(ctx, events.TypeBookingCompleted, booking)
	return booking, nil
}

// SetStatus applies an arbitrary lifecycle transition. Transitions into a
// terminal status carry the same side effects as Cancel and Checkout: the
// room is released, cancellation refunds the payment, completion stamps
// the checkout date.
func (s *bookingService) SetStatus(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error) {
	if !next.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", next))
	}

	booking, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("Cannot transition booking from %s to %s", booking.Status, next))
	}

	transition := repository.StatusTransition{From: booking.Status, To: next}
	eventType := events.TypeBookingStatusChanged
	switch next {
	case model.StatusCancelled:
		refunded := model.PaymentRefunded
		transition.PaymentStatus = &refunded
		eventType = events.TypeBookingCancelled
	case model.StatusCompleted:
		now := time.Now().UTC().Truncate(time.Millisecond)
		transition.CheckoutDate = &now
		eventType = events.TypeBookingCompleted
	}

	if err := s.applyTransition(ctx, booking, transition, next.Terminal()); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "from", transition.From, "to", next)
	s.publish(ctx, eventType, booking)
	return booking, nil
}

// SetPaymentStatus records an external payment outcome. Setting the status
// it already has is a harmless no-op, so payment webhooks can retry freely.
func (s *bookingService) SetPaymentStatus(ctx context.Context, id string, payment model.PaymentStatus) (*model.Booking, error) {
	if !payment.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown payment status: %s", payment))
	}

	booking, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == payment {
		return booking, nil
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, payment); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to update payment status", err)
	}
	booking.PaymentStatus = payment

	s.cfg.Log.Info("Booking payment status updated", "id", id, "payment_status", payment)
	s.publish(ctx, events.TypeBookingPaymentUpdated, booking)
	return booking, nil
}

// --- Helpers ---

// applyTransition runs the conditional status update, optionally paired
// with the room release, inside one transaction and mirrors the result
// onto the in-memory booking.
func (s *bookingService) applyTransition(ctx context.Context, booking *model.Booking, t repository.StatusTransition, releaseRoom bool) error {
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.ApplyTransition(sessCtx, booking.ID, t); err != nil {
			if errors.Is(err, bookingserrors.ErrStaleStatus) {
				return apperrors.Conflict("Booking status changed concurrently, please retry")
			}
			return apperrors.Internal("Failed to update booking status", err)
		}
		if releaseRoom {
			if err := s.roomRepo.Release(sessCtx, booking.RoomID); err != nil {
				return apperrors.Internal("Failed to release room", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to apply booking transition",
			"id", booking.ID,
			"from", t.From,
			"to", t.To,
			"error", err,
		)
		return err
	}

	booking.Status = t.To
	if t.PaymentStatus != nil {
		booking.PaymentStatus = *t.PaymentStatus
	}
	if t.CheckoutDate != nil {
		booking.CheckoutDate = t.CheckoutDate
	}
	return nil
}

func (s *bookingService) getExisting(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) translateRoomLookupErr(err error, roomID string) error {
	if errors.Is(err, roomserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Room", roomID)
	}
	if errors.Is(err, roomserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid room ID format")
	}
	return apperrors.Internal("Failed to retrieve room", err)
}

func (s *bookingService) attachRoomSummaries(ctx context.Context, bookings []*model.Booking) ([]*model.BookingView, error) {
	views := make([]*model.BookingView, 0, len(bookings))
	if len(bookings) == 0 {
		return views, nil
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if !seen[b.RoomID] {
			seen[b.RoomID] = true
			ids = append(ids, b.RoomID)
		}
	}

	rooms, err := s.roomRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to load rooms for bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms for bookings", err)
	}

	summaries := make(map[string]*model.RoomSummary, len(rooms))
	for _, room := range rooms {
		summary := room.Summary()
		summaries[room.ID] = &summary
	}

	for _, b := range bookings {
		views = append(views, &model.BookingView{
			Booking: *b,
			Room:    summaries[b.RoomID],
		})
	}
	return views, nil
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if err := s.events.Publish(ctx, eventType, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"id", booking.ID,
			"error", err,
		)
	}
}
