package core_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/virtline/number-sim/internal/core"
)

func TestInboxAppendAssignsSequentialIDs(t *testing.T) {
	i := core.NewInbox(newTestStore(t), zerolog.Nop())

	m1 := i.Append("+15550001111", "Verify", "Your login code: 111111")
	m2 := i.Append("+15550001111", "Auth", "Your login code: 222222")
	m3 := i.Append("+15550002222", "OTP", "Your login code: 333333")

	require.Equal(t, 1, m1.ID)
	require.Equal(t, 2, m2.ID)
	require.Equal(t, 1, m3.ID) // ids are per-number, not global
}

func TestInboxListPreservesDeliveryOrder(t *testing.T) {
	i := core.NewInbox(newTestStore(t), zerolog.Nop())

	bodies := []string{"first", "second", "third"}
	for _, b := range bodies {
		i.Append("+15550001111", "Verify", b)
	}

	got := i.List("+15550001111")
	require.Len(t, got, len(bodies))
	for idx, m := range got {
		require.Equal(t, bodies[idx], m.Body)
		require.Equal(t, idx+1, m.ID)
	}
}

func TestInboxListUnknownNumber(t *testing.T) {
	i := core.NewInbox(newTestStore(t), zerolog.Nop())
	require.Empty(t, i.List("+15550009999"))
}

func TestInboxTotalAndReload(t *testing.T) {
	store := newTestStore(t)
	i := core.NewInbox(store, zerolog.Nop())
	i.Append("+15550001111", "Verify", "a")
	i.Append("+15550001111", "Verify", "b")
	i.Append("+15550002222", "Verify", "c")
	require.Equal(t, 3, i.Total())

	reloaded := core.NewInbox(store, zerolog.Nop())
	require.Equal(t, 3, reloaded.Total())
	require.Equal(t, i.List("+15550001111"), reloaded.List("+15550001111"))
}
