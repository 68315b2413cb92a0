package provider

import (
	"context"
	"time"
)

// Lease is a real-world number handed out by an external provider.
type Lease struct {
	PhoneNumber  string
	ActivationID string
	Service      string
	CreatedAt    time.Time
}

// Provider obtains real numbers on demand. The contract is a single attempt
// per call: any failure, timeout, or malformed response comes back as an
// error and the caller decides what to do with it.
type Provider interface {
	ObtainNumber(ctx context.Context, service, country string) (Lease, error)
}
