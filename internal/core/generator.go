package core

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtline/number-sim/internal/metrics"
	"github.com/virtline/number-sim/internal/provider"
	"github.com/virtline/number-sim/internal/storage"
)

const numbersDocument = "numbers"

// maxVirtualAttempts bounds collision-checked generation before the
// wide-range fallback kicks in.
const maxVirtualAttempts = 100

// Generator produces unique numbers per country pattern, or real ones via
// an optional provider handle. It is the single source of truth for number
// metadata and the single writer of the numbers document.
type Generator struct {
	mu       sync.Mutex
	registry map[string]Number

	store       *storage.Store
	prov        provider.Provider // nil disables the real path
	provTimeout time.Duration
	log         zerolog.Logger
}

func NewGenerator(store *storage.Store, prov provider.Provider, provTimeout time.Duration, log zerolog.Logger) *Generator {
	return &Generator{
		registry:    storage.Load[Number](store, numbersDocument),
		store:       store,
		prov:        prov,
		provTimeout: provTimeout,
		log:         log.With().Str("component", "generator").Logger(),
	}
}

// Generate returns a new active number, persisted before return.
//
// With wantReal and a configured provider, a single time-bounded provider
// attempt is made; on any failure it falls back silently to virtual
// generation. The caller never sees a provider error.
func (g *Generator) Generate(ctx context.Context, wantReal bool, service, country string) Number {
	if wantReal && g.prov != nil {
		cctx, cancel := context.WithTimeout(ctx, g.provTimeout)
		lease, err := g.prov.ObtainNumber(cctx, service, country)
		cancel()
		if err == nil && lease.PhoneNumber != "" {
			return g.registerReal(lease, service, country)
		}
		metrics.ProviderFallbackTotal.Inc()
		g.log.Debug().Err(err).Str("service", service).Str("country", country).
			Msg("provider unavailable, falling back to virtual")
	}
	return g.generateVirtual()
}

func (g *Generator) registerReal(lease provider.Lease, service, country string) Number {
	createdAt := lease.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	n := Number{
		Value:           lease.PhoneNumber,
		CountryCode:     strings.ToUpper(country),
		CountryName:     titleCase(country),
		Flag:            flagForProviderCountry(country),
		Origin:          OriginReal,
		Status:          StatusActive,
		CreatedAt:       createdAt,
		ProviderRef:     lease.ActivationID,
		ProviderService: lease.Service,
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.registry[n.Value] = n
	g.persistLocked()
	return n
}

func (g *Generator) generateVirtual() Number {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := countries[rand.Intn(len(countries))]
	for i := 0; i < maxVirtualAttempts; i++ {
		value := dialDigits(c)
		if _, taken := g.registry[value]; taken {
			metrics.GenerationCollisions.Inc()
			continue
		}
		return g.registerVirtualLocked(value, c)
	}

	// All attempts collided: emit from a wide US-style range without a
	// collision check, accepting the small residual risk.
	us := countries[0]
	value := us.DialCode + strconv.Itoa(randRange(2000000000, 9999999999))
	g.log.Warn().Str("value", value).Msg("collision budget exhausted, using wide-range fallback")
	return g.registerVirtualLocked(value, us)
}

func (g *Generator) registerVirtualLocked(value string, c Country) Number {
	n := Number{
		Value:       value,
		CountryCode: c.Code,
		CountryName: c.Name,
		Flag:        c.Flag,
		Origin:      OriginVirtual,
		Status:      StatusActive,
		CreatedAt:   time.Now().UTC(),
	}
	g.registry[value] = n
	g.persistLocked()
	return n
}

// Get returns the registry record for a value.
func (g *Generator) Get(value string) (Number, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.registry[value]
	return n, ok
}

// CountryOf returns a display label for a number value. Unregistered values
// are inferred from the longest matching dialing-code prefix; +1 is
// ambiguous between the US and Canada entries and resolves to the US label
// because it comes first in the table.
func (g *Generator) CountryOf(value string) string {
	g.mu.Lock()
	n, ok := g.registry[value]
	g.mu.Unlock()
	if ok {
		return n.Flag + " " + n.CountryName
	}

	best := -1
	for i, c := range countries {
		if strings.HasPrefix(value, c.DialCode) {
			if best == -1 || len(c.DialCode) > len(countries[best].DialCode) {
				best = i
			}
		}
	}
	if best >= 0 {
		return countries[best].Flag + " " + countries[best].Name
	}
	return "🌍 Unknown"
}

// IsReal reports whether the value came from the provider path.
func (g *Generator) IsReal(value string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registry[value].Origin == OriginReal
}

// Active returns values of all currently active numbers.
func (g *Generator) Active() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.registry))
	for value, n := range g.registry {
		if n.Status == StatusActive {
			out = append(out, value)
		}
	}
	return out
}

// Retire marks a number retired. The record stays in the registry so its
// value is never reissued.
func (g *Generator) Retire(value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.registry[value]
	if !ok {
		return ErrUnknownNumber
	}
	if n.Status == StatusRetired {
		return nil
	}
	n.Status = StatusRetired
	g.registry[value] = n
	g.persistLocked()
	return nil
}

// RetireRealBefore retires active real-origin numbers created before the
// cutoff and returns how many it touched. Provider leases go stale.
func (g *Generator) RetireRealBefore(cutoff time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	touched := 0
	for value, n := range g.registry {
		if n.Origin == OriginReal && n.Status == StatusActive && n.CreatedAt.Before(cutoff) {
			n.Status = StatusRetired
			g.registry[value] = n
			touched++
		}
	}
	if touched > 0 {
		g.persistLocked()
	}
	return touched
}

func (g *Generator) persistLocked() {
	if err := storage.Save(g.store, numbersDocument, g.registry); err != nil {
		g.log.Error().Err(err).Msg("persist numbers document")
	}
}
