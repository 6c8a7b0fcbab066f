package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ynovair/internal/domain"
	"ynovair/internal/pricing"
	"ynovair/internal/reference"
	"ynovair/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// memoryStore implements the repository contracts with the same
// check-then-decrement semantics the SQL layer provides, guarded by one
// mutex so the test exercises the service under real goroutine
// contention.
type memoryStore struct {
	mu       sync.Mutex
	flight   domain.Flight
	bookings map[int64]*domain.Booking
	nextID   int64
}

func newMemoryStore(flight domain.Flight) *memoryStore {
	return &memoryStore{flight: flight, bookings: make(map[int64]*domain.Booking)}
}

func (s *memoryStore) Create(ctx context.Context, b *domain.Booking, p *domain.Passenger, bag *domain.Baggage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flight.Status != domain.FlightStatusScheduled {
		return domain.ErrFlightNotBookable
	}
	if s.flight.AvailableSeats < b.NumberOfPassengers {
		return domain.ErrInsufficientSeats
	}
	s.flight.AvailableSeats -= b.NumberOfPassengers

	s.nextID++
	b.ID = s.nextID
	b.Status = domain.BookingStatusConfirmed
	stored := *b
	s.bookings[b.ID] = &stored
	return nil
}

func (s *memoryStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *memoryStore) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	return nil, nil
}

func (s *memoryStore) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	b.Status = domain.BookingStatusCancelled
	s.flight.AvailableSeats += b.NumberOfPassengers
	if s.flight.AvailableSeats > s.flight.TotalSeats {
		s.flight.AvailableSeats = s.flight.TotalSeats
	}
	copied := *b
	return &copied, nil
}

func (s *memoryStore) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	b.Status = to
	copied := *b
	return &copied, nil
}

func (s *memoryStore) BaggageByBooking(ctx context.Context, bookingID int64) ([]domain.Baggage, error) {
	return nil, nil
}

func (s *memoryStore) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Reference == ref {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) CompleteForLandedFlights(ctx context.Context) ([]domain.Booking, error) {
	return nil, nil
}

func (s *memoryStore) snapshotFlight() domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flight
}

// flightReader serves the service's pre-check from the store snapshot.
type flightReader struct {
	store *memoryStore
}

func (r flightReader) List(ctx context.Context) ([]domain.Flight, error) {
	return []domain.Flight{r.store.snapshotFlight()}, nil
}

func (r flightReader) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f := r.store.snapshotFlight()
	if f.ID != id {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

var _ repository.BookingRepository = (*memoryStore)(nil)
var _ repository.FlightRepository = flightReader{}

func TestBookingService_ConcurrentReservationsNeverOvercommit(t *testing.T) {
	store := newMemoryStore(domain.Flight{
		ID:             1,
		FlightNumber:   "YN001",
		TotalSeats:     10,
		AvailableSeats: 10,
		PriceCents:     10_000,
		Status:         domain.FlightStatusScheduled,
	})

	service := &BookingService{
		bookings:       store,
		flights:        flightReader{store: store},
		refs:           reference.NewGenerator(store.ReferenceExists, 5),
		fees:           pricing.DefaultFeeSchedule(),
		createAttempts: 5,
		logger:         zerolog.Nop(),
	}

	const goroutines = 10
	const seatsEach = 2

	var wg sync.WaitGroup
	wg.Add(goroutines)
	results := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			input := CreateBookingInput{
				FlightID:   1,
				Passengers: seatsEach,
				Passenger: PassengerInput{
					FirstName: "User",
					LastName:  fmt.Sprintf("Number%d", i),
					Email:     fmt.Sprintf("user%d@example.com", i),
					Phone:     "+3360000000",
				},
			}
			_, err := service.Create(context.Background(), input)
			results <- err
		}(i)
	}

	wg.Wait()
	close(results)

	succeeded := 0
	insufficient := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case err == domain.ErrInsufficientSeats:
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 10 seats, 2 per booking: exactly 5 fit, the rest are rejected.
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 5, insufficient)

	flight := store.snapshotFlight()
	assert.Equal(t, 0, flight.AvailableSeats)
	assert.GreaterOrEqual(t, flight.AvailableSeats, 0)
}

func TestBookingService_CancelRestoresSeatsOnce(t *testing.T) {
	store := newMemoryStore(domain.Flight{
		ID:             1,
		FlightNumber:   "YN001",
		TotalSeats:     100,
		AvailableSeats: 100,
		PriceCents:     15_000,
		Status:         domain.FlightStatusScheduled,
	})

	service := &BookingService{
		bookings:       store,
		flights:        flightReader{store: store},
		refs:           reference.NewGenerator(store.ReferenceExists, 5),
		fees:           pricing.DefaultFeeSchedule(),
		createAttempts: 5,
		logger:         zerolog.Nop(),
	}

	ctx := context.Background()
	input := CreateBookingInput{
		FlightID:   1,
		Passengers: 3,
		Passenger: PassengerInput{
			FirstName: "Marie",
			LastName:  "Dupont",
			Email:     "marie@example.com",
			Phone:     "+33600000000",
		},
	}

	created, err := service.Create(ctx, input)
	assert.NoError(t, err)
	assert.Equal(t, 97, store.snapshotFlight().AvailableSeats)

	cancelled, err := service.Cancel(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, 100, store.snapshotFlight().AvailableSeats)

	// Second cancel is rejected and must not credit the seats again.
	_, err = service.Cancel(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, 100, store.snapshotFlight().AvailableSeats)
}
