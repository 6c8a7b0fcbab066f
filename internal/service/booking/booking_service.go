package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ynovair/internal/domain"
	"ynovair/internal/kafka"
	"ynovair/internal/metrics"
	"ynovair/internal/pricing"
	"ynovair/internal/reference"
	"ynovair/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	CheckIn(ctx context.Context, id int64) (*domain.Booking, error)
	Get(ctx context.Context, id int64) (*BookingDetails, error)
	List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error)
	CompleteLanded(ctx context.Context) ([]domain.Booking, error)
}

// Cache is the slice of the flights cache the booking path needs: every
// seat-count mutation must drop the cached list.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// ReferenceSource yields unique booking references.
type ReferenceSource interface {
	Generate(ctx context.Context) (string, error)
}

type CreateBookingInput struct {
	FlightID   int64
	UserID     *int64
	Passengers int
	Passenger  PassengerInput
	Baggage    *BaggageInput
}

type PassengerInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PassportNumber string
	DateOfBirth    *time.Time
}

type BaggageInput struct {
	WeightGrams int64
	Description string
}

// BookingDetails bundles a booking with its baggage items for reads.
type BookingDetails struct {
	Booking domain.Booking
	Baggage []domain.Baggage
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	refs               ReferenceSource
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	fees               pricing.FeeSchedule
	createAttempts     int
	logger             zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger zerolog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	refs ReferenceSource,
	cache Cache,
	producer Producer,
	bookingTopic string,
	fees pricing.FeeSchedule,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		flights:        flights,
		refs:           refs,
		cache:          cache,
		producer:       producer,
		bookingTopic:   bookingTopic,
		fees:           fees,
		createAttempts: reference.DefaultMaxAttempts,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (in CreateBookingInput) validate(fees pricing.FeeSchedule) error {
	if in.Passengers < domain.MinPassengersPerBooking || in.Passengers > domain.MaxPassengersPerBooking {
		return domain.ErrInvalidPassengerCount
	}
	required := []struct {
		name  string
		value string
	}{
		{"first_name", in.Passenger.FirstName},
		{"last_name", in.Passenger.LastName},
		{"email", in.Passenger.Email},
		{"phone", in.Passenger.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return domain.MissingFieldError{Field: f.name}
		}
	}
	if in.Baggage != nil {
		if in.Baggage.WeightGrams < 0 {
			return errors.New("baggage weight must be non-negative")
		}
		if !fees.CheckItemWeight(in.Baggage.WeightGrams) {
			return domain.ErrBaggageOverweight
		}
	}
	return nil
}

// Create runs the whole booking transaction: validation, pricing,
// reference generation, then a single repository transaction that
// reserves the seats and persists passenger, booking and baggage. A
// failure inside that transaction rolls the reservation back, so no seat
// decrement survives without its booking.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := input.validate(s.fees); err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if !flight.IsBookable() {
		if flight.Status != domain.FlightStatusScheduled {
			return nil, domain.ErrFlightNotBookable
		}
		metrics.IncReservationConflict()
		return nil, domain.ErrInsufficientSeats
	}

	total := flight.PriceCents * int64(input.Passengers)
	if input.Baggage != nil {
		total += s.fees.ExtraCharge(input.Baggage.WeightGrams)
	}

	var (
		booking   *domain.Booking
		createErr error
	)
	// The generator pre-checks the reference, but the insert can still
	// lose a race against a concurrent booking; retry the transaction
	// with a fresh reference, bounded like the generator itself.
	for attempt := 0; attempt < s.createAttempts; attempt++ {
		ref, err := s.refs.Generate(ctx)
		if err != nil {
			return nil, err
		}

		passenger := &domain.Passenger{
			FirstName:      input.Passenger.FirstName,
			LastName:       input.Passenger.LastName,
			Email:          input.Passenger.Email,
			Phone:          input.Passenger.Phone,
			PassportNumber: input.Passenger.PassportNumber,
			DateOfBirth:    input.Passenger.DateOfBirth,
		}
		booking = &domain.Booking{
			Reference:          ref,
			FlightID:           flight.ID,
			UserID:             input.UserID,
			NumberOfPassengers: input.Passengers,
			TotalPriceCents:    total,
		}
		var bag *domain.Baggage
		if input.Baggage != nil {
			bag = &domain.Baggage{
				WeightGrams: input.Baggage.WeightGrams,
				Description: input.Baggage.Description,
			}
		}

		createErr = s.bookings.Create(ctx, booking, passenger, bag)
		if errors.Is(createErr, repository.ErrReferenceConflict) {
			continue
		}
		break
	}
	if createErr != nil {
		if errors.Is(createErr, repository.ErrReferenceConflict) {
			return nil, domain.ErrReferenceExhausted
		}
		if errors.Is(createErr, domain.ErrInsufficientSeats) {
			metrics.IncReservationConflict()
		}
		return nil, createErr
	}

	metrics.IncBookingCreated()
	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_created", booking, input.Passenger.Email)
	return booking, nil
}

// Cancel is idempotence-guarded: a second cancel returns
// domain.ErrAlreadyCancelled and never credits the seats twice.
func (s *BookingService) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCancelled()
	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_cancelled", booking, "")
	return booking, nil
}

func (s *BookingService) CheckIn(ctx context.Context, id int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.BookingStatusCheckedIn) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, domain.BookingStatusCheckedIn)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, current.Status, domain.BookingStatusCheckedIn)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_checked_in", updated, "")
	return updated, nil
}

func (s *BookingService) Get(ctx context.Context, id int64) (*BookingDetails, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	baggage, err := s.bookings.BaggageByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingDetails{Booking: *booking, Baggage: baggage}, nil
}

func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.List(ctx, filter)
}

// CompleteLanded moves bookings on landed flights to COMPLETED. Invoked
// periodically by the worker.
func (s *BookingService) CompleteLanded(ctx context.Context) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteForLandedFlights(ctx)
	if err != nil {
		return nil, err
	}
	for i := range completed {
		s.publish(ctx, "booking_completed", &completed[i], "")
	}
	return completed, nil
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("invalidate flights cache")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking, email string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		EventID:         uuid.NewString(),
		Type:            eventType,
		Reference:       b.Reference,
		BookingID:       b.ID,
		FlightID:        b.FlightID,
		Passengers:      b.NumberOfPassengers,
		TotalPriceCents: b.TotalPriceCents,
		Status:          string(b.Status),
		Email:           email,
		OccurredAt:      time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, b.Reference, event); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Str("reference", b.Reference).Msg("publish booking event")
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.Reference, event); err != nil {
			s.logger.Warn().Err(err).Str("event", eventType).Str("reference", b.Reference).Msg("publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
