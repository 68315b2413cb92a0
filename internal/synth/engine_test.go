package synth_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/virtline/number-sim/internal/core"
	"github.com/virtline/number-sim/internal/storage"
	"github.com/virtline/number-sim/internal/synth"
)

type staticNumbers struct{ values []string }

func (s *staticNumbers) Active() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

func newEngine(t *testing.T, numbers []string, opt synth.Options) (*synth.Engine, *core.Inbox) {
	t.Helper()
	store, err := storage.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	inbox := core.NewInbox(store, zerolog.Nop())
	return synth.NewEngine(inbox, &staticNumbers{values: numbers}, opt, zerolog.Nop()), inbox
}

var sixDigits = regexp.MustCompile(`\d{6}`)

func TestSynthesizeAppendsExactlyOneMessage(t *testing.T) {
	e, inbox := newEngine(t, nil, synth.Options{})

	for i := 1; i <= 10; i++ {
		msg := e.Synthesize("+15550001111")
		require.Equal(t, i, msg.ID)
		require.NotEmpty(t, msg.Sender)
		require.Regexp(t, sixDigits, msg.Body)
		require.False(t, msg.ReceivedAt.IsZero())
		require.Len(t, inbox.List("+15550001111"), i)
	}
}

func TestDeliverBypassesRandomSynthesis(t *testing.T) {
	e, inbox := newEngine(t, nil, synth.Options{})

	msg := e.Deliver("+15550001111", "MyBank", "Your statement is ready")
	require.Equal(t, "MyBank", msg.Sender)
	require.Equal(t, "Your statement is ready", msg.Body)
	require.Equal(t, []core.Message{msg}, inbox.List("+15550001111"))
}

func TestRunSynthesizesForActiveNumbers(t *testing.T) {
	numbers := []string{"+15550001111", "+15550002222", "+15550003333"}
	e, inbox := newEngine(t, numbers, synth.Options{
		Interval:   5 * time.Millisecond,
		BatchSize:  2,
		RatePerSec: 1000,
		Burst:      1000,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err := e.Run(ctx)
	require.True(t, errors.Is(err, context.DeadlineExceeded))

	total := 0
	for _, v := range numbers {
		total += len(inbox.List(v))
	}
	require.Greater(t, total, 0)
}

func TestRunStopsOnCancel(t *testing.T) {
	e, _ := newEngine(t, []string{"+15550001111"}, synth.Options{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after cancel")
	}
}

func TestRunIdlesWithoutActiveNumbers(t *testing.T) {
	e, inbox := newEngine(t, nil, synth.Options{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = e.Run(ctx)
	require.Zero(t, inbox.Total())
}
