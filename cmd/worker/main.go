package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ynovair/config"
	"ynovair/internal/cache"
	"ynovair/internal/email"
	"ynovair/internal/kafka"
	"ynovair/internal/logging"
	"ynovair/internal/reference"
	"ynovair/internal/repository"
	"ynovair/internal/service/booking"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	refs := reference.NewGenerator(bookingRepo.ReferenceExists, cfg.Booking.ReferenceAttempts)

	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		refs,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		cfg.Booking.FeeSchedule(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(*logger),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(*logger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn().Err(err).Msg("decode booking event")
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			logger.Warn().Err(err).Msg("consumer stopped")
		}
	}()

	sweepEvery := time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute
	if sweepEvery <= 0 {
		sweepEvery = 10 * time.Minute
	}
	sweepTicker := time.NewTicker(sweepEvery)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			completed, err := bookingService.CompleteLanded(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("complete landed bookings")
				continue
			}
			if len(completed) > 0 {
				logger.Info().Int("count", len(completed)).Msg("completed bookings for landed flights")
			}
		case s := <-sig:
			logger.Info().Str("signal", s.String()).Msg("shutting down")
			return
		}
	}
}
