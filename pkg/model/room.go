package model

import "time"

type Room struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomNumber  string    `json:"roomNumber" bson:"room_number" validate:"required,min=1,max=20"`
	Type        string    `json:"type" bson:"type" validate:"required,min=2,max=100"`
	Price       float64   `json:"price" bson:"price" validate:"min=0"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	Amenities   []string  `json:"amenities" bson:"amenities,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Images      []string  `json:"images" bson:"images,omitempty" validate:"omitempty,dive,url"`
	Description string    `json:"description" bson:"description" validate:"omitempty,max=2000"`
	IsAvailable bool      `json:"isAvailable" bson:"is_available"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

// RoomUpdate carries a partial administrative edit. Nil pointers leave the
// field untouched. The availability flag is deliberately absent: only the
// booking coordinator flips it.
type RoomUpdate struct {
	RoomNumber  *string   `json:"roomNumber,omitempty" validate:"omitempty,min=1,max=20"`
	Type        *string   `json:"type,omitempty" validate:"omitempty,min=2,max=100"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,min=0"`
	Capacity    *int      `json:"capacity,omitempty" validate:"omitempty,min=1,max=20"`
	Amenities   *[]string `json:"amenities,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// RoomSummary is the room projection attached to booking list views.
type RoomSummary struct {
	ID         string  `json:"id" bson:"_id"`
	RoomNumber string  `json:"roomNumber" bson:"room_number"`
	Type       string  `json:"type" bson:"type"`
	Price      float64 `json:"price" bson:"price"`
}

func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		ID:         r.ID,
		RoomNumber: r.RoomNumber,
		Type:       r.Type,
		Price:      r.Price,
	}
}
