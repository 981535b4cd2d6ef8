package model

import "time"

// RoomLock is an advisory lock serializing reservation attempts on a single
// room. The lock id is derived from the room id, so concurrent reserve calls
// for the same room collide on a duplicate-key insert. ExpiresAt backs a TTL
// index so a crashed holder cannot wedge the room.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
