package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ynovair/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrReferenceConflict signals that the booking reference lost a race
// against a concurrent insert despite the pre-check. Callers retry with a
// fresh reference.
var ErrReferenceConflict = errors.New("booking reference already exists")

type BookingFilter struct {
	UserID *int64
	Status *domain.BookingStatus
}

type BookingRepository interface {
	// Create persists passenger, booking and optional baggage together
	// with the seat reservation as one transaction. On success the ids,
	// status and timestamps of the passed records are filled in.
	Create(ctx context.Context, booking *domain.Booking, passenger *domain.Passenger, baggage *domain.Baggage) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	// Cancel flips the booking to CANCELLED and releases its seats in
	// one transaction. Cancelling twice returns ErrAlreadyCancelled
	// without touching the seat counter again.
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateStatus applies a transition only when the booking is still
	// in the expected current status.
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error)
	BaggageByBooking(ctx context.Context, bookingID int64) ([]domain.Baggage, error)
	ReferenceExists(ctx context.Context, ref string) (bool, error)
	// CompleteForLandedFlights moves CONFIRMED and CHECKED_IN bookings
	// whose flight has landed to COMPLETED and returns them.
	CompleteForLandedFlights(ctx context.Context) ([]domain.Booking, error)
}

const bookingColumns = `id, reference, flight_id, passenger_id, user_id, number_of_passengers, total_price_cents, status, seat_number, created_at, updated_at`

type PGBookingRepository struct {
	db     *pgxpool.Pool
	ledger SeatLedger
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, passenger *domain.Passenger, baggage *domain.Baggage) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return persistence(err)
	}
	defer tx.Rollback(ctx)

	if err := r.ledger.Reserve(ctx, tx, booking.FlightID, booking.NumberOfPassengers); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO passengers (first_name, last_name, email, phone, passport_number, date_of_birth)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		passenger.FirstName, passenger.LastName, passenger.Email, passenger.Phone, passenger.PassportNumber, passenger.DateOfBirth).
		Scan(&passenger.ID); err != nil {
		return persistence(err)
	}

	booking.PassengerID = passenger.ID
	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, flight_id, passenger_id, user_id, number_of_passengers, total_price_cents, status, seat_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.FlightID, booking.PassengerID, booking.UserID, booking.NumberOfPassengers, booking.TotalPriceCents, booking.Status, booking.SeatNumber).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		if isUniqueViolation(err, "reference") {
			return ErrReferenceConflict
		}
		return persistence(err)
	}

	if baggage != nil {
		baggage.BookingID = booking.ID
		baggage.Status = domain.BaggageStatusRegistered
		if err := tx.QueryRow(ctx, `INSERT INTO baggage (booking_id, weight_grams, description, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			baggage.BookingID, baggage.WeightGrams, baggage.Description, baggage.Status).
			Scan(&baggage.ID); err != nil {
			return persistence(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return persistence(err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, persistence(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var conds []string
	var args []any
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, persistence(err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, persistence(err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, persistence(err)
	}
	defer tx.Rollback(ctx)

	// Lock the row so two concurrent cancels cannot both pass the
	// status check and double-credit the seats.
	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, persistence(err)
	}
	if b.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if !b.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, b.Status, domain.BookingStatusCancelled)
	}

	if err := tx.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 RETURNING updated_at`,
		id, domain.BookingStatusCancelled).Scan(&b.UpdatedAt); err != nil {
		return nil, persistence(err)
	}
	b.Status = domain.BookingStatusCancelled

	if err := r.ledger.Release(ctx, tx, b.FlightID, b.NumberOfPassengers); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, persistence(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$3, updated_at=now() WHERE id=$1 AND status=$2 RETURNING `+bookingColumns, id, from, to)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the booking is gone or its status moved underneath
			// the caller; re-read to tell the two apart.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("%w: booking is no longer %s", domain.ErrInvalidTransition, from)
		}
		return nil, persistence(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) BaggageByBooking(ctx context.Context, bookingID int64) ([]domain.Baggage, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, weight_grams, description, status FROM baggage WHERE booking_id=$1 ORDER BY id`, bookingID)
	if err != nil {
		return nil, persistence(err)
	}
	defer rows.Close()

	items := make([]domain.Baggage, 0)
	for rows.Next() {
		var bag domain.Baggage
		if err := rows.Scan(&bag.ID, &bag.BookingID, &bag.WeightGrams, &bag.Description, &bag.Status); err != nil {
			return nil, persistence(err)
		}
		items = append(items, bag)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(err)
	}
	return items, nil
}

func (r *PGBookingRepository) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE reference=$1)`, ref).Scan(&exists); err != nil {
		return false, persistence(err)
	}
	return exists, nil
}

func (r *PGBookingRepository) CompleteForLandedFlights(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status = ANY($2) AND flight_id IN (SELECT id FROM flights WHERE status=$3)
		RETURNING `+bookingColumns,
		domain.BookingStatusCompleted,
		[]string{string(domain.BookingStatusConfirmed), string(domain.BookingStatusCheckedIn)},
		domain.FlightStatusLanded)
	if err != nil {
		return nil, persistence(err)
	}
	defer rows.Close()

	var completed []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, persistence(err)
		}
		completed = append(completed, b)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(err)
	}
	return completed, nil
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.Reference, &b.FlightID, &b.PassengerID, &b.UserID, &b.NumberOfPassengers,
		&b.TotalPriceCents, &b.Status, &b.SeatNumber, &b.CreatedAt, &b.UpdatedAt)
}

func isUniqueViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, column)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
