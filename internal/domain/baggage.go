package domain

type BaggageStatus string

// Baggage statuses are lifecycle tags rather than a closed transition
// table; handling systems downstream set them in arbitrary order.
const (
	BaggageStatusRegistered BaggageStatus = "REGISTERED"
	BaggageStatusCheckedIn  BaggageStatus = "CHECKED_IN"
	BaggageStatusLoaded     BaggageStatus = "LOADED"
	BaggageStatusInTransit  BaggageStatus = "IN_TRANSIT"
	BaggageStatusDelivered  BaggageStatus = "DELIVERED"
	BaggageStatusLost       BaggageStatus = "LOST"
)

type Baggage struct {
	ID          int64
	BookingID   int64
	WeightGrams int64
	Description string
	Status      BaggageStatus
}
