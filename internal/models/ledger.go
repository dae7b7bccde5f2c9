package models

// Ledger maps dates to deduplicated sets of records. Dates keep the order in
// which they were first recorded and records keep their insertion order, so
// rendering is deterministic.
type Ledger struct {
	dates   []Date
	entries map[Date]*dayRecords
	size    int
}

type dayRecords struct {
	records []Record
	seen    map[string]struct{}
}

// NewLedger returns an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[Date]*dayRecords)}
}

// Add inserts r under d. Adding a record that is already present under d is a
// no-op and returns false.
func (l *Ledger) Add(d Date, r Record) bool {
	if l.entries == nil {
		l.entries = make(map[Date]*dayRecords)
	}
	day, ok := l.entries[d]
	if !ok {
		day = &dayRecords{seen: make(map[string]struct{})}
		l.entries[d] = day
		l.dates = append(l.dates, d)
	}
	k := r.key()
	if _, dup := day.seen[k]; dup {
		return false
	}
	day.seen[k] = struct{}{}
	day.records = append(day.records, r)
	l.size++
	return true
}

// Contains reports whether r is recorded under d.
func (l *Ledger) Contains(d Date, r Record) bool {
	day, ok := l.entries[d]
	if !ok {
		return false
	}
	_, found := day.seen[r.key()]
	return found
}

// Dates returns the dates in first-recorded order.
func (l *Ledger) Dates() []Date {
	out := make([]Date, len(l.dates))
	copy(out, l.dates)
	return out
}

// Records returns the records of d in insertion order.
func (l *Ledger) Records(d Date) []Record {
	day, ok := l.entries[d]
	if !ok {
		return nil
	}
	out := make([]Record, len(day.records))
	copy(out, day.records)
	return out
}

// Len is the total number of records across all dates.
func (l *Ledger) Len() int {
	return l.size
}

// Each calls fn for every record, dates first-recorded first.
func (l *Ledger) Each(fn func(Date, Record)) {
	for _, d := range l.dates {
		for _, r := range l.entries[d].records {
			fn(d, r)
		}
	}
}

// Merge adds every record of other and returns how many were new.
func (l *Ledger) Merge(other *Ledger) int {
	if other == nil {
		return 0
	}
	added := 0
	other.Each(func(d Date, r Record) {
		if l.Add(d, r) {
			added++
		}
	})
	return added
}
