// Package synth manufactures plausible inbound SMS traffic for active
// numbers, off the request path.
package synth

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/virtline/number-sim/internal/core"
	"github.com/virtline/number-sim/internal/metrics"
)

type Options struct {
	Interval   time.Duration // tick cadence; bounded, non-zero
	BatchSize  int           // max numbers served per tick
	RatePerSec float64       // sustained synthesis rate cap
	Burst      int
}

// NumberSource lists the numbers currently eligible for traffic.
type NumberSource interface {
	Active() []string
}

type Engine struct {
	inbox   *core.Inbox
	numbers NumberSource
	opt     Options
	log     zerolog.Logger
}

func NewEngine(inbox *core.Inbox, numbers NumberSource, opt Options, log zerolog.Logger) *Engine {
	if opt.Interval <= 0 {
		opt.Interval = 25 * time.Second
	}
	if opt.BatchSize <= 0 {
		opt.BatchSize = 3
	}
	if opt.RatePerSec <= 0 {
		opt.RatePerSec = 5
	}
	if opt.Burst <= 0 {
		opt.Burst = 10
	}
	return &Engine{
		inbox:   inbox,
		numbers: numbers,
		opt:     opt,
		log:     log.With().Str("component", "synth").Logger(),
	}
}

// Synthesize draws content per the family policy and appends exactly one
// message to the number's sequence.
func (e *Engine) Synthesize(numberValue string) core.Message {
	family, sender, body := draw()
	metrics.SynthMessages.WithLabelValues(family).Inc()
	return e.inbox.Append(numberValue, sender, body)
}

// Deliver bypasses random synthesis for provider-sourced traffic.
func (e *Engine) Deliver(numberValue, sender, body string) core.Message {
	metrics.SynthMessages.WithLabelValues("explicit").Inc()
	return e.inbox.Append(numberValue, sender, body)
}

// Run drives the background cadence until the context is canceled. The
// in-flight tick finishes before Run returns; the next one is never started.
func (e *Engine) Run(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Limit(e.opt.RatePerSec), e.opt.Burst)
	ticker := time.NewTicker(e.opt.Interval)
	defer ticker.Stop()

	e.log.Info().Dur("interval", e.opt.Interval).Int("batch", e.opt.BatchSize).Msg("synthesis engine running")
	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("synthesis engine stopped")
			return ctx.Err()
		case <-ticker.C:
			e.tick(ctx, limiter)
		}
	}
}

func (e *Engine) tick(ctx context.Context, limiter *rate.Limiter) {
	active := e.numbers.Active()
	if len(active) == 0 {
		return
	}

	// Random subset of up to BatchSize numbers per tick.
	rand.Shuffle(len(active), func(i, j int) { active[i], active[j] = active[j], active[i] })
	if len(active) > e.opt.BatchSize {
		active = active[:e.opt.BatchSize]
	}

	for _, value := range active {
		if err := limiter.Wait(ctx); err != nil {
			return // canceled mid-tick
		}
		msg := e.Synthesize(value)
		e.log.Debug().Str("number", value).Str("sender", msg.Sender).Int("id", msg.ID).Msg("synthesized message")
	}
	metrics.SynthCycles.Inc()
}
