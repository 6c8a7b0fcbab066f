package repository

import (
	"context"
	"errors"
	"fmt"

	"ynovair/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so ledger
// operations can run standalone or inside a booking transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SeatLedger owns all mutation of flight seat counters. Reservation is a
// single conditional UPDATE; the row lock it takes serializes concurrent
// reservations against the same flight.
type SeatLedger struct{}

// Reserve decrements available_seats by count, succeeding only when the
// flight is SCHEDULED and has at least count seats left.
func (SeatLedger) Reserve(ctx context.Context, q querier, flightID int64, count int) error {
	tag, err := q.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now() WHERE id=$1 AND status=$3 AND available_seats >= $2`,
		flightID, count, domain.FlightStatusScheduled)
	if err != nil {
		return persistence(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// The guarded UPDATE matched nothing; find out which condition failed.
	var status domain.FlightStatus
	err = q.QueryRow(ctx, `SELECT status FROM flights WHERE id=$1`, flightID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrFlightNotFound
	}
	if err != nil {
		return persistence(err)
	}
	if status != domain.FlightStatusScheduled {
		return domain.ErrFlightNotBookable
	}
	return domain.ErrInsufficientSeats
}

// Release returns count seats to the flight, clamped so available_seats
// never exceeds total_seats.
func (SeatLedger) Release(ctx context.Context, q querier, flightID int64, count int) error {
	tag, err := q.Exec(ctx, `UPDATE flights SET available_seats = LEAST(total_seats, available_seats + $2), updated_at = now() WHERE id=$1`,
		flightID, count)
	if err != nil {
		return persistence(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
