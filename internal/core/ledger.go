package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtline/number-sim/internal/storage"
)

const usersDocument = "users"

// Ledger tracks users, their quota, and the numbers issued to them. It is
// the single writer of the users document: every mutation happens under the
// ledger mutex and ends with a whole-document overwrite.
type Ledger struct {
	mu    sync.Mutex
	users map[string]User

	store        *storage.Store
	adminID      string
	defaultQuota int
	log          zerolog.Logger
}

func NewLedger(store *storage.Store, adminID string, defaultQuota int, log zerolog.Logger) *Ledger {
	return &Ledger{
		users:        storage.Load[User](store, usersDocument),
		store:        store,
		adminID:      adminID,
		defaultQuota: defaultQuota,
		log:          log.With().Str("component", "ledger").Logger(),
	}
}

// RegisterOrTouch creates the user on first sight and refreshes
// displayName/lastActiveAt on every later contact. A user whose id matches
// the configured admin identity is (re-)granted admin and unlimited quota on
// every contact, so changing the admin id promotes an already-known user.
func (l *Ledger) RegisterOrTouch(userID, displayName string) User {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	u, ok := l.users[userID]
	if !ok {
		u = User{
			ID:           userID,
			DisplayName:  displayName,
			Quota:        l.defaultQuota,
			OwnedNumbers: []string{},
			CreatedAt:    now,
		}
	}
	if userID == l.adminID {
		u.IsAdmin = true
		u.Quota = UnlimitedQuota
	}
	u.DisplayName = displayName
	u.LastActiveAt = now
	l.users[userID] = u
	l.persistLocked()
	return u
}

// Get returns a copy of the user record.
func (l *Ledger) Get(userID string) (User, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[userID]
	return u, ok
}

// CanProvision reports whether the user may be issued one more number.
// Unknown users can't; admins always can.
func (l *Ledger) CanProvision(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.canProvisionLocked(userID)
}

func (l *Ledger) canProvisionLocked(userID string) bool {
	u, ok := l.users[userID]
	if !ok {
		return false
	}
	if u.IsAdmin || u.Unlimited() {
		return true
	}
	return u.NumbersIssued < u.Quota
}

// Assign records ownership of a number. The quota check and the append run
// under one lock acquisition, so a losing racer fails without mutation.
func (l *Ledger) Assign(userID, numberValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return ErrUnknownUser
	}
	if !l.canProvisionLocked(userID) {
		return ErrQuotaExceeded
	}

	u.OwnedNumbers = append(u.OwnedNumbers, numberValue)
	u.NumbersIssued++
	u.LastActiveAt = time.Now().UTC()
	l.users[userID] = u
	l.persistLocked()
	return nil
}

// NumbersOf returns the user's number values in issue order.
func (l *Ledger) NumbersOf(userID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[userID]
	if !ok {
		return nil
	}
	out := make([]string, len(u.OwnedNumbers))
	copy(out, u.OwnedNumbers)
	return out
}

// Counts returns the ledger-side stats fields.
func (l *Ledger) Counts() (totalUsers, adminCount, totalIssued int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.users {
		totalUsers++
		if u.IsAdmin {
			adminCount++
		}
		totalIssued += u.NumbersIssued
	}
	return
}

// persistLocked overwrites the users document. On write failure the
// in-memory state keeps the change; the durability gap is logged and
// counted rather than swallowed.
func (l *Ledger) persistLocked() {
	if err := storage.Save(l.store, usersDocument, l.users); err != nil {
		l.log.Error().Err(err).Msg("persist users document")
	}
}
