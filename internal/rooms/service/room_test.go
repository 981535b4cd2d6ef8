package service

import (
	"context"
	"testing"
	"time"

	roomserrors "innkeeper/internal/rooms/errors"
	"innkeeper/internal/rooms/validator"
	"innkeeper/pkg/config"
	mongotx "innkeeper/pkg/db/mongo"
	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/logger"
	"innkeeper/pkg/model"
)

const testRoomID = "507f1f77bcf86cd799439011"

type mockRoomRepository struct {
	createFunc  func(ctx context.Context, room *model.Room) error
	findFunc    func(ctx context.Context, id string) (*model.Room, error)
	findAllFunc func(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Room, error)
	countFunc   func(ctx context.Context, onlyAvailable bool) (int64, error)
	updateFunc  func(ctx context.Context, id string, room *model.Room) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = testRoomID
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, id)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindByRoomNumber(ctx context.Context, roomNumber string) (*model.Room, error) {
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepository) FindAll(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Room, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, onlyAvailable, limit, offset)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) Count(ctx context.Context, onlyAvailable bool) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, onlyAvailable)
	}
	return 0, nil
}

func (m *mockRoomRepository) Update(ctx context.Context, id string, room *model.Room) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, room)
	}
	return nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRoomRepository) Hold(ctx context.Context, id string) error    { return nil }
func (m *mockRoomRepository) Release(ctx context.Context, id string) error { return nil }

func (m *mockRoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockOccupancyChecker struct {
	countFunc func(ctx context.Context, roomID string) (int64, error)
}

func (m *mockOccupancyChecker) CountOccupyingByRoom(ctx context.Context, roomID string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, roomID)
	}
	return 0, nil
}

func newTestService(t *testing.T, repo *mockRoomRepository, occupancy *mockOccupancyChecker) RoomService {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	if occupancy == nil {
		occupancy = &mockOccupancyChecker{}
	}
	return NewRoomService(repo, occupancy, validator.NewRoomValidator(log), cfg)
}

func validRoom() *model.Room {
	return &model.Room{
		RoomNumber:  "101",
		Type:        "Standard Room",
		Price:       2499,
		Capacity:    2,
		Amenities:   []string{"King Bed", "Balcony"},
		Description: "Comfortable stay with modern amenities.",
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected error code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestCreate_ForcesAvailability(t *testing.T) {
	var persisted *model.Room
	repo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			room.ID = testRoomID
			persisted = room
			return nil
		},
	}
	svc := newTestService(t, repo, nil)

	room := validRoom()
	room.IsAvailable = false
	if err := svc.Create(context.Background(), room); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persisted == nil || !persisted.IsAvailable {
		t.Error("new rooms must be created available regardless of the payload flag")
	}
}

func TestCreate_DuplicateRoomNumber(t *testing.T) {
	repo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			return roomserrors.ErrDuplicateRoomNumber
		},
	}
	svc := newTestService(t, repo, nil)

	err := svc.Create(context.Background(), validRoom())
	assertErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(t, &mockRoomRepository{}, nil)

	room := validRoom()
	room.RoomNumber = ""
	err := svc.Create(context.Background(), room)
	assertErrorCode(t, err, apperrors.CodeValidation)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(t, &mockRoomRepository{}, nil)

	_, err := svc.GetByID(context.Background(), testRoomID)
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestGetAll_CombinesCountAndRows(t *testing.T) {
	repo := &mockRoomRepository{
		countFunc: func(ctx context.Context, onlyAvailable bool) (int64, error) {
			return 7, nil
		},
		findAllFunc: func(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Room, error) {
			return []*model.Room{{ID: testRoomID, RoomNumber: "101"}}, nil
		},
	}
	svc := newTestService(t, repo, nil)

	rooms, count, err := svc.GetAll(context.Background(), false, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("expected count 7, got %d", count)
	}
	if len(rooms) != 1 {
		t.Errorf("expected 1 room, got %d", len(rooms))
	}
}

func TestGetAll_PassesAvailabilityFilter(t *testing.T) {
	var filterSeen bool
	repo := &mockRoomRepository{
		findAllFunc: func(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Room, error) {
			filterSeen = onlyAvailable
			return nil, nil
		},
	}
	svc := newTestService(t, repo, nil)

	if _, _, err := svc.GetAll(context.Background(), true, 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filterSeen {
		t.Error("expected availability filter to reach the repository")
	}
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	existing := validRoom()
	existing.ID = testRoomID
	existing.IsAvailable = true

	var persisted *model.Room
	repo := &mockRoomRepository{
		findFunc: func(ctx context.Context, id string) (*model.Room, error) {
			copied := *existing
			return &copied, nil
		},
		updateFunc: func(ctx context.Context, id string, room *model.Room) error {
			persisted = room
			return nil
		},
	}
	svc := newTestService(t, repo, nil)

	newPrice := 2999.0
	room, err := svc.Update(context.Background(), testRoomID, &model.RoomUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if room.Price != 2999 {
		t.Errorf("expected updated price 2999, got %v", room.Price)
	}
	if room.RoomNumber != "101" {
		t.Errorf("expected untouched room number, got %s", room.RoomNumber)
	}
	if persisted == nil || !persisted.IsAvailable {
		t.Error("update must not flip the availability flag")
	}
}

func TestDelete_ConflictsWhileOccupied(t *testing.T) {
	occupancy := &mockOccupancyChecker{
		countFunc: func(ctx context.Context, roomID string) (int64, error) {
			return 2, nil
		},
	}
	svc := newTestService(t, &mockRoomRepository{}, occupancy)

	err := svc.Delete(context.Background(), testRoomID)
	assertErrorCode(t, err, apperrors.CodeConflict)
}

func TestDelete_FreeRoom(t *testing.T) {
	deleted := false
	repo := &mockRoomRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(t, repo, nil)

	if err := svc.Delete(context.Background(), testRoomID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected repository delete to be called")
	}
}
