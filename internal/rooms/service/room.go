package service

import (
	"context"
	"errors"
	"sync"

	roomserrors "innkeeper/internal/rooms/errors"
	"innkeeper/internal/rooms/repository"
	"innkeeper/internal/rooms/validator"
	"innkeeper/pkg/config"
	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/model"
	"innkeeper/pkg/sanitizer"
)

// OccupancyChecker reports whether any booking in an occupying status still
// references a room. Satisfied by the bookings repository; kept as a local
// interface so room administration does not import the booking packages
// wholesale.
type OccupancyChecker interface {
	CountOccupyingByRoom(ctx context.Context, roomID string) (int64, error)
}

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo      repository.RoomRepository
	occupancy OccupancyChecker
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	occupancy OccupancyChecker,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		occupancy: occupancy,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	// New rooms always start free; the flag is the coordinator's afterwards.
	room.IsAvailable = true
	sanitizeRoom(room)

	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateRoomNumber) {
			return apperrors.Conflict("Room number already exists")
		}
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "id", room.ID, "room_number", room.RoomNumber)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupErr(err, id)
	}

	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, onlyAvailable)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, onlyAvailable, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupErr(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := mergeRoomUpdates(existing, updates)
	sanitizeRoom(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		switch {
		case errors.Is(err, roomserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Room", id)
		case errors.Is(err, roomserrors.ErrDuplicateRoomNumber):
			return nil, apperrors.Conflict("Room number already exists")
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated", "id", id)
	return merged, nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	// A room with live bookings cannot be removed; cancellation or checkout
	// must release it first.
	active, err := s.occupancy.CountOccupyingByRoom(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to check room occupancy", "id", id, "error", err)
		return apperrors.Internal("Failed to check room occupancy", err)
	}
	if active > 0 {
		return apperrors.Conflict("Room has active bookings and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateLookupErr(err, id)
	}

	s.cfg.Log.Info("Room deleted", "id", id)
	return nil
}

func (s *roomService) translateLookupErr(err error, id string) error {
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Room", id)
	case errors.Is(err, roomserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid room ID format")
	}
	s.cfg.Log.Error("Room lookup failed", "id", id, "error", err)
	return apperrors.Internal("Failed to retrieve room", err)
}

func sanitizeRoom(room *model.Room) {
	room.RoomNumber = sanitizer.SanitizeLabel(room.RoomNumber)
	room.Type = sanitizer.SanitizeLabel(room.Type)
	room.Amenities = sanitizer.SanitizeSlice(room.Amenities, sanitizer.SanitizeLabel)
	room.Description = sanitizer.SanitizeFreeText(room.Description)
}

func mergeRoomUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.RoomNumber != nil {
		merged.RoomNumber = *updates.RoomNumber
	}
	if updates.Type != nil {
		merged.Type = *updates.Type
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Images != nil {
		merged.Images = *updates.Images
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}

	return &merged
}
