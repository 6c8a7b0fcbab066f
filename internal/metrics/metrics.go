package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ynovair",
			Name:      "bookings_created_total",
			Help:      "Bookings created successfully.",
		},
	)
	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ynovair",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled.",
		},
	)
	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ynovair",
			Name:      "seat_reservation_conflicts_total",
			Help:      "Booking attempts rejected for lack of available seats.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingsCancelled, reservationConflicts)
	})
}

func IncBookingCreated() { bookingsCreated.Inc() }

func IncBookingCancelled() { bookingsCancelled.Inc() }

func IncReservationConflict() { reservationConflicts.Inc() }
