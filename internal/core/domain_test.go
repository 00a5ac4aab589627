package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{"Middleman", RoleMiddleman, true},
		{" user ", RoleUser, true},
		{"root", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseRole(%q) = %q, %v", tc.in, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidRole) {
			t.Errorf("ParseRole(%q) expected ErrInvalidRole, got %v", tc.in, err)
		}
	}
}

func TestUserPublicStripsPassword(t *testing.T) {
	u := User{ID: 3, Username: "user", Email: "user@example.com", Role: RoleUser, Name: "John Doe", Password: "hunter2"}

	pub := u.Public()
	if pub.ID != 3 || pub.Email != "user@example.com" || pub.Role != RoleUser {
		t.Fatalf("unexpected projection: %+v", pub)
	}

	// The projection must not leak the secret through serialization either.
	b, err := json.Marshal(pub)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "hunter2") || strings.Contains(string(b), "password") {
		t.Fatalf("public user leaks password: %s", b)
	}
}

func TestEntryValidate(t *testing.T) {
	valid := Entry{
		UserID:         3,
		Title:          "Website Design",
		Client:         "Acme Corp",
		Start:          time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC),
		AmountAgreed:   5000000,
		AmountReceived: 2500000,
		Status:         StatusPending,
		CommissionPct:  10,
	}

	cases := []struct {
		name    string
		mutate  func(*Entry)
		wantErr error
	}{
		{"valid", func(e *Entry) {}, nil},
		{"empty title", func(e *Entry) { e.Title = "  " }, ErrEmptyTitle},
		{"negative agreed", func(e *Entry) { e.AmountAgreed = -1 }, ErrInvalidAmount},
		{"negative received", func(e *Entry) { e.AmountReceived = -1 }, ErrInvalidAmount},
		{"commission over 100", func(e *Entry) { e.CommissionPct = 100.5 }, ErrInvalidCommission},
		{"commission negative", func(e *Entry) { e.CommissionPct = -1 }, ErrInvalidCommission},
		{"bogus status", func(e *Entry) { e.Status = "paid" }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.mutate(&e)
			err := e.Validate()
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestEntryCommissionCents(t *testing.T) {
	e := Entry{MiddlemanID: 2, AmountReceived: 2500000, CommissionPct: 10}
	if got := e.CommissionCents(); got != 250000 {
		t.Errorf("CommissionCents = %d, want 250000", got)
	}

	e.MiddlemanID = 0
	if got := e.CommissionCents(); got != 0 {
		t.Errorf("CommissionCents without middleman = %d, want 0", got)
	}
}

func TestDatasetLookups(t *testing.T) {
	d := &Dataset{Users: []User{
		{ID: 1, Email: "admin@example.com", Role: RoleAdmin},
		{ID: 3, Email: "user@example.com", Role: RoleUser},
	}}

	if u, ok := d.UserByEmail("USER@example.com"); !ok || u.ID != 3 {
		t.Fatalf("UserByEmail case-insensitive lookup failed: %+v %v", u, ok)
	}
	if _, ok := d.UserByEmail("nobody@example.com"); ok {
		t.Fatal("expected miss for unknown email")
	}
	if u, ok := d.UserByID(1); !ok || u.Role != RoleAdmin {
		t.Fatalf("UserByID failed: %+v %v", u, ok)
	}
}

func TestDatasetCloneIsIndependent(t *testing.T) {
	d := &Dataset{
		Users:   []User{{ID: 1}},
		Entries: []Entry{{ID: 101, Title: "Website Design"}},
	}
	c := d.Clone()
	c.Entries[0].Title = "changed"
	c.Users[0].ID = 99

	if d.Entries[0].Title != "Website Design" || d.Users[0].ID != 1 {
		t.Fatal("clone aliases the original dataset")
	}
}

func TestSummarize(t *testing.T) {
	start := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC)
	entries := []Entry{
		{UserID: 3, MiddlemanID: 2, Start: start, End: start.Add(8 * time.Hour),
			AmountAgreed: 5000000, AmountReceived: 2500000, CommissionPct: 10},
		{UserID: 3, Start: start, // open engagement, no middleman
			AmountAgreed: 100000, AmountReceived: 0},
	}

	s := Summarize(entries)
	if s.Entries != 2 {
		t.Errorf("Entries = %d", s.Entries)
	}
	if s.AgreedCents != 5100000 || s.ReceivedCents != 2500000 {
		t.Errorf("totals = %d / %d", s.AgreedCents, s.ReceivedCents)
	}
	if s.OutstandingCents != 2600000 {
		t.Errorf("OutstandingCents = %d", s.OutstandingCents)
	}
	if s.CommissionCents != 250000 {
		t.Errorf("CommissionCents = %d", s.CommissionCents)
	}
	if s.TotalHours != 8 {
		t.Errorf("TotalHours = %v", s.TotalHours)
	}
}
