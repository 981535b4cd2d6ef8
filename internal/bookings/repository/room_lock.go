package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "innkeeper/internal/bookings/errors"
	"innkeeper/pkg/config"
	"innkeeper/pkg/model"
)

const LockCollectionName = "Room_locks"

// RoomLockRepository provides per-room advisory locks. A lock document's
// _id is the room ID, so the collection's unique _id index serializes
// concurrent reservations: whoever inserts first holds the lock. A TTL
// index on expires_at reaps locks abandoned by crashed processes.
type RoomLockRepository interface {
	Acquire(ctx context.Context, roomID string) error
	Release(ctx context.Context, roomID string) error
}

type mongoRoomLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire returns ErrLockHeld when another request already holds the
// room's lock.
func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID string) error {
	now := time.Now().UTC()
	lock := &model.RoomLock{
		ID:        roomID,
		ExpiresAt: now.Add(r.cfg.RoomLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return nil
}

func (r *mongoRoomLockRepository) Release(ctx context.Context, roomID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": roomID})
	if err != nil {
		return fmt.Errorf("failed to release room lock: %w", err)
	}
	return nil
}
