package store

import (
	"time"

	"worktracker/internal/core"
)

// Seed returns the canonical default dataset used when no snapshot exists
// or on explicit reset: three fixed users, one example entry.
func Seed() *core.Dataset {
	return &core.Dataset{
		Users: []core.User{
			{ID: 1, Username: "admin", Email: "admin@example.com", Role: core.RoleAdmin, Name: "Admin User"},
			{ID: 2, Username: "middleman", Email: "middleman@example.com", Role: core.RoleMiddleman, Name: "Mr. Agent"},
			{ID: 3, Username: "user", Email: "user@example.com", Role: core.RoleUser, Name: "John Doe"},
		},
		Entries: []core.Entry{
			{
				ID:             101,
				UserID:         3,
				MiddlemanID:    2,
				Title:          "Website Design",
				Client:         "Acme Corp",
				Start:          time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC),
				End:            time.Date(2023, 10, 1, 17, 0, 0, 0, time.UTC),
				AmountAgreed:   5000000,
				AmountReceived: 2500000,
				Status:         core.StatusPending,
				CommissionPct:  10,
				Notes:          "Half paid upfront",
			},
		},
	}
}
