package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reservo/models"
)

func TestLedger_IncreaseIsAllOrNothing(t *testing.T) {
	m := rangedModel(t, 3)
	l := NewLedger(m, []models.LedgerEntry{{Date: "2026-06-02", Consumed: 3}})

	d := l.Increase(nights("2026-06-01", "2026-06-02", "2026-06-03"), 1)

	assert.False(t, d.Admitted)
	assert.Equal(t, 0, l.ConsumedAt(models.LedgerKey{Date: "2026-06-01"}))
	assert.Equal(t, 3, l.ConsumedAt(models.LedgerKey{Date: "2026-06-02"}))
	assert.Equal(t, 0, l.ConsumedAt(models.LedgerKey{Date: "2026-06-03"}))
	assert.Len(t, l.Entries(), 1)
}

func TestLedger_RangedDecreaseRemovesZeroEntries(t *testing.T) {
	m := rangedModel(t, 5)
	l := NewLedger(m, nil)
	l.Increase(nights("2026-06-01", "2026-06-02"), 5)
	assert.Equal(t, []models.LedgerEntry{
		{Date: "2026-06-01", Consumed: 5},
		{Date: "2026-06-02", Consumed: 5},
	}, l.Entries())

	released := l.Decrease(nights("2026-06-01", "2026-06-02"), 5)
	assert.Equal(t, 10, released)
	assert.Empty(t, l.Entries())
}

func TestLedger_SlottedDecreaseKeepsZeroEntries(t *testing.T) {
	m := slottedModel(t)
	key := models.LedgerKey{Date: "2026-06-01", Slot: "11:00"}
	l := NewLedger(m, nil)
	l.Increase([]models.LedgerKey{key}, 3)

	l.Decrease([]models.LedgerKey{key}, 3)

	assert.Equal(t, []models.LedgerEntry{{Date: "2026-06-01", Slot: "11:00", Consumed: 0}}, l.Entries())
}

func TestLedger_DecreaseClampsAtZero(t *testing.T) {
	m := slottedModel(t)
	key := models.LedgerKey{Date: "2026-06-01", Slot: "11:00"}
	l := NewLedger(m, []models.LedgerEntry{{Date: key.Date, Slot: key.Slot, Consumed: 2}})

	released := l.Decrease([]models.LedgerKey{key}, 5)

	assert.Equal(t, 2, released)
	assert.Equal(t, 0, l.ConsumedAt(key))
}

func TestLedger_NegativePersistedCountsAreIgnored(t *testing.T) {
	m := rangedModel(t, 5)
	l := NewLedger(m, []models.LedgerEntry{{Date: "2026-06-01", Consumed: -4}})

	assert.Equal(t, 0, l.ConsumedAt(models.LedgerKey{Date: "2026-06-01"}))
	assert.Empty(t, l.Entries())
}

func TestLedger_CloneIsIndependent(t *testing.T) {
	m := rangedModel(t, 5)
	l := NewLedger(m, nil)
	c := l.Clone()
	c.Increase(nights("2026-06-01"), 2)

	assert.Equal(t, 0, l.ConsumedAt(models.LedgerKey{Date: "2026-06-01"}))
	assert.Equal(t, 2, c.ConsumedAt(models.LedgerKey{Date: "2026-06-01"}))
}
