package provider

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/segmentio/ksuid"
)

type Dummy struct{}

func NewDummy() *Dummy { return &Dummy{} }

func (d *Dummy) ObtainNumber(ctx context.Context, service, country string) (Lease, error) {
	// Simulate latency and occasional failures.
	select {
	case <-ctx.Done():
		return Lease{}, ctx.Err()
	case <-time.After(50 * time.Millisecond):
	}
	if rand.Intn(100) < 3 { // ~3% failure
		return Lease{}, errors.New("provider_temporary_error")
	}
	return Lease{
		PhoneNumber:  fmt.Sprintf("+7%d", 9000000000+rand.Int63n(1000000000)),
		ActivationID: ksuid.New().String(),
		Service:      "dummy",
		CreatedAt:    time.Now().UTC(),
	}, nil
}
