package core

import (
	"time"
)

type Origin string

const (
	OriginVirtual Origin = "virtual"
	OriginReal    Origin = "real"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
)

// UnlimitedQuota marks a user whose provisioning is never capped.
const UnlimitedQuota = -1

type User struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	IsAdmin       bool      `json:"is_admin"`
	Quota         int       `json:"quota"` // UnlimitedQuota for admins
	NumbersIssued int       `json:"numbers_issued"`
	OwnedNumbers  []string  `json:"owned_numbers"` // number values, insertion order
	CreatedAt     time.Time `json:"created_at"`
	LastActiveAt  time.Time `json:"last_active_at"`
}

// Unlimited reports whether the user's quota never runs out.
func (u User) Unlimited() bool { return u.Quota == UnlimitedQuota }

type Number struct {
	Value       string    `json:"value"` // canonical +<cc><digits>, globally unique
	CountryCode string    `json:"country_code"`
	CountryName string    `json:"country_name"`
	Flag        string    `json:"flag"`
	Origin      Origin    `json:"origin"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Set only when Origin is OriginReal.
	ProviderRef     string `json:"provider_ref,omitempty"`
	ProviderService string `json:"provider_service,omitempty"`
}

type Message struct {
	ID         int       `json:"id"` // unique within the owning number's sequence
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Stats is an aggregate read-only snapshot over the full ledger and the
// message store. Not indexed; the scan is O(n) and fine at this scale.
type Stats struct {
	TotalUsers         int `json:"total_users"`
	AdminCount         int `json:"admin_count"`
	TotalNumbersIssued int `json:"total_numbers_issued"`
	TotalMessages      int `json:"total_messages"`
}
