package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/patient-api/internal/email"
	"github.com/jwalitptl/patient-api/internal/service/notifier"
	"github.com/jwalitptl/patient-api/pkg/messaging"
	redismsg "github.com/jwalitptl/patient-api/pkg/messaging/redis"
)

var (
	consumedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_events_consumed_total",
		Help: "The total number of notification events consumed",
	}, []string{"event_type"})
	malformedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_events_malformed_total",
		Help: "The total number of messages that could not be decoded",
	})
	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_notification_failures_total",
		Help: "The total number of ops notifications that failed to send",
	})
)

// Config comes from the environment; the worker has no config file.
type Config struct {
	RedisURL   string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	Channel    string `envconfig:"NOTIFIER_CHANNEL" default:"patient-events"`
	HealthPort int    `envconfig:"HEALTH_PORT" default:"8081"`

	SMTPHost     string   `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int      `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string   `envconfig:"SMTP_USERNAME"`
	SMTPPassword string   `envconfig:"SMTP_PASSWORD"`
	EmailFrom    string   `envconfig:"EMAIL_FROM" default:"noreply@patient-api.local"`
	OpsEmails    []string `envconfig:"OPS_EMAILS"`
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("worker", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	broker, err := redismsg.NewRedisBroker(redismsg.Config{URL: cfg.RedisURL}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	mailer := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})

	setupHealthCheck(cfg.HealthPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutting down...")
		cancel()
	}()

	messages, err := broker.Subscribe(ctx, cfg.Channel)
	if err != nil {
		log.Fatal().Err(err).Str("channel", cfg.Channel).Msg("failed to subscribe")
	}

	log.Info().Str("channel", cfg.Channel).Msg("worker started")
	consume(ctx, messages, mailer, cfg.OpsEmails)
	log.Info().Msg("worker stopped")
}

func consume(ctx context.Context, messages <-chan []byte, mailer email.Service, opsEmails []string) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-messages:
			if !ok {
				return
			}
			handleMessage(raw, mailer, opsEmails)
		}
	}
}

func handleMessage(raw []byte, mailer email.Service, opsEmails []string) {
	var msg messaging.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		malformedEvents.Inc()
		log.Warn().Err(err).Msg("failed to decode message")
		return
	}

	consumedEvents.WithLabelValues(msg.Type).Inc()
	log.Info().Str("event_type", msg.Type).Msg("event received")

	// Deletions and restores are the events ops wants to hear about.
	switch msg.Type {
	case notifier.EventPatientDeleted, notifier.EventPatientRestored:
		subject := fmt.Sprintf("[patient-api] %s at %s", msg.Type, time.Now().UTC().Format(time.RFC3339))
		body := fmt.Sprintf("Event %s received.\n\nPayload:\n%s\n", msg.Type, raw)
		if err := mailer.SendOpsNotice(opsEmails, subject, body); err != nil {
			notificationFailures.Inc()
			log.Warn().Err(err).Str("event_type", msg.Type).Msg("failed to send ops notice")
		}
	}
}

func setupHealthCheck(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}
