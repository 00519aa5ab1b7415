package contact

import (
	"context"
	"time"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/metrics"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const TooManyRequestsMessage = "Too many requests. Please try again later."

// Store persists accepted submissions.
type Store interface {
	Add(ctx context.Context, req *models.ContactRequest) error
}

// Notifier tells someone about an accepted submission.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, req models.ContactRequest) error
}

type Service struct {
	limiter   Limiter
	store     Store
	notifiers []Notifier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithStore enables persistence. Without it submissions are only logged.
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithNotifiers(notifiers ...Notifier) Option {
	return func(s *Service) {
		s.notifiers = append(s.notifiers, notifiers...)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(limiter Limiter, opts ...Option) *Service {
	s := &Service{
		limiter: limiter,
		logger:  log.With().Str("component", "contactService").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit rate-limits, validates and records a submission. Storage and
// notification failures are logged and do not fail the submission.
func (s *Service) Submit(ctx context.Context, sub Submission, clientIP string) error {
	if s.limiter != nil && !s.limiter.Allow(clientIP) {
		s.metrics.ContactSubmission("rate_limited")
		s.logger.Warn().Str("ip", clientIP).Msg("contact rate limit exceeded")
		return errs.NewTooManyRequestsError(TooManyRequestsMessage)
	}
	if err := Validate(sub); err != nil {
		s.metrics.ContactSubmission("invalid")
		return err
	}

	req := models.ContactRequest{
		Name:      sub.Name,
		Email:     sub.Email,
		Company:   optional(sub.Company),
		Subject:   optional(sub.Subject),
		Message:   sub.Message,
		IPAddress: clientIP,
		CreatedAt: s.now(),
	}

	s.logger.Info().
		Str("name", req.Name).
		Str("email", req.Email).
		Str("subject", sub.Subject).
		Str("ip", clientIP).
		Msg("contact form submission")

	if s.store != nil {
		if err := s.store.Add(ctx, &req); err != nil {
			s.logger.Error().Err(err).Msg("failed to store contact request")
		}
	}

	for _, n := range s.notifiers {
		if err := n.Notify(ctx, req); err != nil {
			s.logger.Error().Err(err).Str("notifier", n.Name()).Msg("contact notification failed")
		}
	}

	s.metrics.ContactSubmission("accepted")
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
