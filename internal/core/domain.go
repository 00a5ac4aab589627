package core

import (
	"strings"
	"time"
)

const (
	RoleAdmin     Role = "admin"
	RoleMiddleman Role = "middleman"
	RoleUser      Role = "user"
)

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

type (
	// Role is the closed set of user roles. Anything outside the three
	// constants is invalid and sees no entries.
	Role string

	// Status is the payment status of an entry.
	Status string

	// User is the internal user record. Password, when present, never
	// leaves the ledger package; callers get a PublicUser instead.
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     Role   `json:"role"`
		Name     string `json:"name"`
		Password string `json:"password,omitempty"`
	}

	// PublicUser is the outward projection of a User with secret fields
	// removed. It is the only sanctioned shape for exposing user data.
	PublicUser struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     Role   `json:"role"`
		Name     string `json:"name"`
	}

	// Entry is one billable work engagement. Amounts are integer cents.
	// A zero MiddlemanID means no intermediary; a zero End means the
	// engagement is still open.
	Entry struct {
		ID             int64     `json:"id"`
		UserID         int64     `json:"userId"`
		MiddlemanID    int64     `json:"middlemanId,omitempty"`
		Title          string    `json:"title"`
		Client         string    `json:"client"`
		Start          time.Time `json:"start"`
		End            time.Time `json:"end"`
		AmountAgreed   int64     `json:"amountAgreed"`
		AmountReceived int64     `json:"amountReceived"`
		Status         Status    `json:"status"`
		CommissionPct  float64   `json:"commissionPct"`
		Notes          string    `json:"notes"`
	}

	// Dataset is the whole ledger: all users plus all entries. It is
	// persisted as a single snapshot.
	Dataset struct {
		Users   []User  `json:"users"`
		Entries []Entry `json:"entries"`
	}
)

// ParseRole maps a string onto the closed role enum.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMiddleman:
		return RoleMiddleman, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMiddleman || r == RoleUser
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Public strips secret fields from the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Name:     u.Name,
	}
}

// Validate checks an entry against the invariants that do not require the
// surrounding dataset. Referential checks live in the repository, which
// owns the user list.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.AmountAgreed < 0 || e.AmountReceived < 0 {
		return ErrInvalidAmount
	}
	if e.CommissionPct < 0 || e.CommissionPct > 100 {
		return ErrInvalidCommission
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// CommissionCents is the commission owed to the middleman on this entry,
// computed on the received amount.
func (e Entry) CommissionCents() int64 {
	if e.MiddlemanID == 0 {
		return 0
	}
	return CalcPct(e.AmountReceived, e.CommissionPct)
}

// UserByID looks a user up in the dataset.
func (d *Dataset) UserByID(id int64) (User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// UserByEmail looks a user up by the login key. Emails are compared
// case-insensitively and must be unique within the dataset.
func (d *Dataset) UserByEmail(email string) (User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range d.Users {
		if strings.ToLower(u.Email) == email {
			return u, true
		}
	}
	return User{}, false
}

// Clone returns a copy so callers never alias the repository's
// exclusively owned dataset.
func (d *Dataset) Clone() *Dataset {
	return &Dataset{
		Users:   append([]User(nil), d.Users...),
		Entries: append([]Entry(nil), d.Entries...),
	}
}
