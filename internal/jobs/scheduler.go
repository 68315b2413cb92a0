package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/virtline/number-sim/internal/core"
)

// Scheduler runs the housekeeping jobs: periodic stats snapshots and
// retirement of stale real-origin numbers (provider leases expire).
type Scheduler struct {
	cron        *cron.Cron
	svc         *core.Service
	statsSpec   string
	retireSpec  string
	retireAfter time.Duration
	log         zerolog.Logger
}

func NewScheduler(svc *core.Service, statsSpec, retireSpec string, retireAfter time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		svc:         svc,
		statsSpec:   statsSpec,
		retireSpec:  retireSpec,
		retireAfter: retireAfter,
		log:         log.With().Str("component", "jobs").Logger(),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.statsSpec, s.logStats); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.retireSpec, s.retireStale); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for running jobs.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("jobs still running at shutdown deadline")
	}
}

func (s *Scheduler) logStats() {
	st := s.svc.GetStats()
	s.log.Info().
		Int("users", st.TotalUsers).
		Int("admins", st.AdminCount).
		Int("numbers_issued", st.TotalNumbersIssued).
		Int("messages", st.TotalMessages).
		Msg("ledger snapshot")
}

func (s *Scheduler) retireStale() {
	if n := s.svc.RetireRealOlderThan(s.retireAfter); n > 0 {
		s.log.Info().Int("retired", n).Dur("lease_age", s.retireAfter).Msg("retired stale real numbers")
	}
}
