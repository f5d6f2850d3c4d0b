package domain

import "time"

// Booking is a reservation of one property by one guest over the closed
// interval [StartDate, EndDate].
type Booking struct {
	ID         int64     `json:"id"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	PropertyID int64     `json:"propertyId"`
	GuestID    int64     `json:"guestId"`
	Property   *Property `json:"property,omitempty"`
}
