package email

import (
	"context"

	"ynovair/internal/kafka"

	"github.com/rs/zerolog"
)

// Sender notifies passengers about booking lifecycle events. The actual
// mail transport lives outside this repo; the sender logs what it would
// deliver.
type Sender struct {
	logger zerolog.Logger
}

func NewSender(logger zerolog.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info().
		Str("event", event.Type).
		Str("reference", event.Reference).
		Str("email", event.Email).
		Int64("flight_id", event.FlightID).
		Msg("booking notification")
	return nil
}
