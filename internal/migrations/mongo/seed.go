package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"innkeeper/pkg/model"
)

var sampleRooms = []model.Room{
	{
		RoomNumber: "101",
		Type:       "Standard Room",
		Price:      2499,
		Capacity:   2,
		Amenities:  []string{"King Bed", "Balcony", "Sea View"},
		Description: "Our Standard Room offers a comfortable stay with modern amenities. " +
			"Enjoy the view from your private balcony overlooking the sea, and relax in the " +
			"king-sized bed after a day of exploration.",
		IsAvailable: true,
	},
	{
		RoomNumber: "201",
		Type:       "Deluxe Suite",
		Price:      3499,
		Capacity:   2,
		Amenities:  []string{"King Bed", "Balcony", "City View"},
		Description: "Experience luxury in our Deluxe Suite, offering a spacious layout with " +
			"a separate sitting area and panoramic city views from your private balcony.",
		IsAvailable: true,
	},
	{
		RoomNumber: "301",
		Type:       "Family Suite",
		Price:      4999,
		Capacity:   4,
		Amenities:  []string{"2 Queen Beds", "Balcony", "Mountain View"},
		Description: "Our Family Suite is perfect for families traveling together. With two " +
			"queen beds and a spacious layout, there's room for everyone to relax.",
		IsAvailable: true,
	},
	{
		RoomNumber: "401",
		Type:       "Executive Suite",
		Price:      5999,
		Capacity:   2,
		Amenities:  []string{"King Bed", "Private Terrace", "Ocean View", "Mini Bar", "Work Desk"},
		Description: "The Executive Suite offers the perfect blend of luxury and functionality, " +
			"with a private terrace, stunning ocean views and a dedicated work area.",
		IsAvailable: true,
	},
	{
		RoomNumber: "501",
		Type:       "Presidential Suite",
		Price:      8999,
		Capacity:   4,
		Amenities:  []string{"2 King Beds", "Private Pool", "Panoramic View", "Butler Service", "Private Dining Area"},
		Description: "Experience unparalleled luxury in our Presidential Suite, featuring two " +
			"king bedrooms, a private infinity pool and panoramic views of the city and ocean.",
		IsAvailable: true,
	},
	{
		RoomNumber: "601",
		Type:       "Garden Villa",
		Price:      7499,
		Capacity:   6,
		Amenities:  []string{"3 Queen Beds", "Private Garden", "Outdoor Jacuzzi", "BBQ Area", "Kitchen"},
		Description: "Our Garden Villa offers a unique blend of indoor and outdoor living, with " +
			"three queen bedrooms, a fully equipped kitchen and a private garden with jacuzzi.",
		IsAvailable: true,
	},
}

// SeedRooms inserts the sample room catalog, skipping room numbers that
// already exist so reruns are safe.
func SeedRooms(ctx context.Context, client *mongo.Client, dbName string) error {
	coll := client.Database(dbName).Collection("Rooms")

	inserted := 0
	for _, room := range sampleRooms {
		count, err := coll.CountDocuments(ctx, bson.M{"room_number": room.RoomNumber})
		if err != nil {
			return fmt.Errorf("failed to check room %s: %w", room.RoomNumber, err)
		}
		if count > 0 {
			continue
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		room.CreatedAt = now
		room.UpdatedAt = now
		if _, err := coll.InsertOne(ctx, room); err != nil {
			return fmt.Errorf("failed to seed room %s: %w", room.RoomNumber, err)
		}
		inserted++
	}

	fmt.Printf("🌱 Seeded %d sample room(s)\n", inserted)
	return nil
}
