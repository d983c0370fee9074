package types

// Ledger is a cumulative counter that keeps both a running scalar total and
// the time-indexed entries that produced it. The engine appends one entry
// per qualifying event; consumers read whichever representation they need
// without re-summing.
type Ledger struct {
	Total   float64   `json:"total"`
	Entries []float64 `json:"entries,omitempty"`
}

// Append records one event.
func (l *Ledger) Append(v float64) {
	l.Total += v
	l.Entries = append(l.Entries, v)
}

// Count returns the number of recorded events.
func (l *Ledger) Count() int {
	return len(l.Entries)
}
