// Package tour assembles approved showings into a buyer's itinerary. Stops
// are ordered by start time only; no routing or travel time is computed.
package tour

import "time"

// Stop is one showing on a tour.
type Stop struct {
	ShowingID    string    `json:"showing_id"`
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name"`
	Address      string    `json:"address"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// Tour is a saved itinerary.
type Tour struct {
	ID        string    `json:"id"`
	BuyerName string    `json:"buyer_name"`
	Stops     []Stop    `json:"stops"`
	CreatedAt time.Time `json:"created_at"`
}
