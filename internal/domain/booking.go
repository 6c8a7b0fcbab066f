package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn BookingStatus = "CHECKED_IN"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransitionTo reports whether the status change is allowed.
// COMPLETED and CANCELLED are terminal; CANCELLED is reachable from
// every non-terminal status.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is expected.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

const (
	MinPassengersPerBooking = 1
	MaxPassengersPerBooking = 9
)

type Booking struct {
	ID                 int64
	Reference          string
	FlightID           int64
	PassengerID        int64
	UserID             *int64
	NumberOfPassengers int
	TotalPriceCents    int64
	Status             BookingStatus
	SeatNumber         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Passenger struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PassportNumber string
	DateOfBirth    *time.Time
}

func (p *Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}
