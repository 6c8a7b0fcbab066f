package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusBoarding  FlightStatus = "BOARDING"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusLanded    FlightStatus = "LANDED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

var flightTransitions = map[FlightStatus][]FlightStatus{
	FlightStatusScheduled: {FlightStatusBoarding, FlightStatusCancelled},
	FlightStatusBoarding:  {FlightStatusDeparted, FlightStatusCancelled},
	FlightStatusDeparted:  {FlightStatusLanded},
}

// CanTransitionTo reports whether the status change is allowed by the
// flight lifecycle. LANDED and CANCELLED are terminal.
func (s FlightStatus) CanTransitionTo(next FlightStatus) bool {
	for _, allowed := range flightTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Flight struct {
	ID             int64        `json:"id"`
	FlightNumber   string       `json:"flight_number"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	DepartureTime  time.Time    `json:"departure_time"`
	ArrivalTime    time.Time    `json:"arrival_time"`
	TotalSeats     int          `json:"total_seats"`
	AvailableSeats int          `json:"available_seats"`
	PriceCents     int64        `json:"price_cents"`
	Status         FlightStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// IsBookable reports whether the flight accepts new bookings.
func (f *Flight) IsBookable() bool {
	return f.Status == FlightStatusScheduled && f.AvailableSeats > 0
}
