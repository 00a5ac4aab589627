package core

// Summary aggregates a set of entries for dashboard style views.
type Summary struct {
	Entries          int     `json:"entries"`
	AgreedCents      int64   `json:"agreedCents"`
	ReceivedCents    int64   `json:"receivedCents"`
	OutstandingCents int64   `json:"outstandingCents"`
	CommissionCents  int64   `json:"commissionCents"`
	TotalHours       float64 `json:"totalHours"`
}

// Summarize folds entries into totals. Commission accrues only on entries
// that have a middleman, always on the received amount.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		s.Entries++
		s.AgreedCents += e.AmountAgreed
		s.ReceivedCents += e.AmountReceived
		s.CommissionCents += e.CommissionCents()
		s.TotalHours += Duration(e.Start, e.End)
	}
	s.OutstandingCents = s.AgreedCents - s.ReceivedCents
	return s
}
