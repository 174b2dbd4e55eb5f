// internal/domain/booking/model.go

package booking

import "time"

// Status represents where a booking is in its lifetime
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking represents a confirmed reservation of a spot for a time window
type Booking struct {
	ID         string    `json:"id"`
	SpotID     string    `json:"spotId"`
	UserID     string    `json:"userId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	TotalPrice float64   `json:"totalPrice"`
	Status     Status    `json:"status"`
}

// View is a booking joined with the spot it references.
// Spot fields stay empty when the spot is no longer known.
type View struct {
	Booking
	SpotTitle    string `json:"spotTitle"`
	SpotAddress  string `json:"spotAddress"`
	SpotImageURL string `json:"spotImageUrl"`
}
