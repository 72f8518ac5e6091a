// Package availability owns the per-resource consumed-capacity ledger. All
// ledger changes go through Ledger.Increase and Ledger.Decrease.
package availability

import (
	"sort"

	"reservo/models"
	"reservo/services/capacity"
)

// Ledger is an in-memory view of one resource's consumed capacity.
type Ledger struct {
	model   capacity.Model
	entries map[models.LedgerKey]int
}

// NewLedger builds a ledger from persisted entries. Negative counts are
// treated as zero.
func NewLedger(model capacity.Model, entries []models.LedgerEntry) *Ledger {
	l := &Ledger{model: model, entries: make(map[models.LedgerKey]int, len(entries))}
	for _, e := range entries {
		key := models.LedgerKey{Date: e.Date, Slot: e.Slot}
		consumed := e.Consumed
		if consumed < 0 {
			consumed = 0
		}
		if consumed == 0 && !model.KeepsEmptyEntries() {
			continue
		}
		l.entries[key] += consumed
	}
	return l
}

// ConsumedAt returns 0 for keys without an entry.
func (l *Ledger) ConsumedAt(key models.LedgerKey) int {
	return l.entries[key]
}

// Increase admits and applies amount at every key, or changes nothing.
func (l *Ledger) Increase(keys []models.LedgerKey, amount int) Decision {
	d := Admit(l.model, l, keys, amount)
	if !d.Admitted {
		return d
	}
	for _, key := range keys {
		l.entries[key] += amount
	}
	return d
}

// Decrease subtracts amount at every key, clamping at zero. It returns the
// units actually released, which is less than len(keys)*amount only when
// the ledger was already short.
func (l *Ledger) Decrease(keys []models.LedgerKey, amount int) int {
	if amount <= 0 {
		return 0
	}
	released := 0
	for _, key := range keys {
		current := l.entries[key]
		next := current - amount
		if next < 0 {
			next = 0
		}
		released += current - next
		if next == 0 && !l.model.KeepsEmptyEntries() {
			delete(l.entries, key)
			continue
		}
		l.entries[key] = next
	}
	return released
}

// Clone returns an independent copy.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{model: l.model, entries: make(map[models.LedgerKey]int, len(l.entries))}
	for k, v := range l.entries {
		c.entries[k] = v
	}
	return c
}

// Entries returns the sparse persisted form ordered by date then slot.
func (l *Ledger) Entries() []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(l.entries))
	for k, v := range l.entries {
		out = append(out, models.LedgerEntry{Date: k.Date, Slot: k.Slot, Consumed: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}
