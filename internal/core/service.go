package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtline/number-sim/internal/metrics"
)

// Service is the collaborator surface consumed by transports. It composes
// the ledger, the number generator, and the inbox; each of those serializes
// its own document, so Service itself carries no lock.
type Service struct {
	Ledger *Ledger
	Gen    *Generator
	Inbox  *Inbox

	log zerolog.Logger
}

func NewService(ledger *Ledger, gen *Generator, inbox *Inbox, log zerolog.Logger) *Service {
	return &Service{
		Ledger: ledger,
		Gen:    gen,
		Inbox:  inbox,
		log:    log.With().Str("component", "service").Logger(),
	}
}

// OnUserSeen registers or touches the user.
func (s *Service) OnUserSeen(userID, displayName string) User {
	return s.Ledger.RegisterOrTouch(userID, displayName)
}

// RequestNumber provisions one number for the user: quota check, generate
// (real path optional, failure invisible), record ownership. Returns
// ErrUnknownUser or ErrQuotaExceeded without touching any state.
func (s *Service) RequestNumber(ctx context.Context, userID string, wantReal bool, service, country string) (Number, error) {
	if _, ok := s.Ledger.Get(userID); !ok {
		metrics.ProvisionTotal.WithLabelValues("none", "unknown_user").Inc()
		return Number{}, ErrUnknownUser
	}
	if !s.Ledger.CanProvision(userID) {
		metrics.ProvisionTotal.WithLabelValues("none", "quota_exceeded").Inc()
		return Number{}, ErrQuotaExceeded
	}

	n := s.Gen.Generate(ctx, wantReal, service, country)

	if err := s.Ledger.Assign(userID, n.Value); err != nil {
		// Lost the race against a concurrent provisioning for the same
		// user. The value stays in the registry (never reissued) but is
		// taken out of circulation.
		_ = s.Gen.Retire(n.Value)
		result := "quota_exceeded"
		if errors.Is(err, ErrUnknownUser) {
			result = "unknown_user"
		}
		metrics.ProvisionTotal.WithLabelValues("none", result).Inc()
		return Number{}, err
	}

	metrics.ProvisionTotal.WithLabelValues(string(n.Origin), "ok").Inc()
	s.log.Info().Str("user_id", userID).Str("value", n.Value).Str("origin", string(n.Origin)).Msg("number provisioned")
	return n, nil
}

// ListNumbers resolves the user's owned values against the registry, in
// issue order. Empty for unknown users.
func (s *Service) ListNumbers(userID string) []Number {
	values := s.Ledger.NumbersOf(userID)
	out := make([]Number, 0, len(values))
	for _, v := range values {
		if n, ok := s.Gen.Get(v); ok {
			out = append(out, n)
		}
	}
	return out
}

// ListMessages returns the number's messages in delivery order.
func (s *Service) ListMessages(numberValue string) []Message {
	return s.Inbox.List(numberValue)
}

// RetireNumber takes a number out of circulation.
func (s *Service) RetireNumber(numberValue string) error {
	return s.Gen.Retire(numberValue)
}

// RetireRealOlderThan retires real-origin numbers past their lease age.
func (s *Service) RetireRealOlderThan(age time.Duration) int {
	return s.Gen.RetireRealBefore(time.Now().UTC().Add(-age))
}

// GetStats scans the full ledger plus the message store.
func (s *Service) GetStats() Stats {
	users, admins, issued := s.Ledger.Counts()
	return Stats{
		TotalUsers:         users,
		AdminCount:         admins,
		TotalNumbersIssued: issued,
		TotalMessages:      s.Inbox.Total(),
	}
}
