package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservo/models"
	"reservo/services/capacity"
)

func rangedModel(t *testing.T, units int) capacity.Model {
	t.Helper()
	m, err := capacity.For(models.Resource{ID: "hotel", Kind: models.KindAccommodation, TotalUnits: units})
	require.NoError(t, err)
	return m
}

func slottedModel(t *testing.T) capacity.Model {
	t.Helper()
	m, err := capacity.For(models.Resource{
		ID:    "tour",
		Kind:  models.KindExperience,
		Slots: []models.Slot{{Start: "11:00", End: "13:00", MaxGuests: 6}},
	})
	require.NoError(t, err)
	return m
}

func nights(dates ...string) []models.LedgerKey {
	keys := make([]models.LedgerKey, len(dates))
	for i, d := range dates {
		keys[i] = models.LedgerKey{Date: d}
	}
	return keys
}

func TestAdmit_EmptyLedgerAdmitsUpToCapacity(t *testing.T) {
	m := rangedModel(t, 5)
	l := NewLedger(m, nil)

	d := Admit(m, l, nights("2026-06-01", "2026-06-02"), 5)
	assert.True(t, d.Admitted)

	d = Admit(m, l, nights("2026-06-01"), 6)
	assert.False(t, d.Admitted)
	assert.Equal(t, models.LedgerKey{Date: "2026-06-01"}, d.Key)
}

func TestAdmit_NamesTheBottleneckNight(t *testing.T) {
	m := rangedModel(t, 2)
	l := NewLedger(m, []models.LedgerEntry{{Date: "2026-06-02", Consumed: 2}})

	d := Admit(m, l, nights("2026-06-01", "2026-06-02", "2026-06-03"), 1)
	assert.False(t, d.Admitted)
	assert.Equal(t, "2026-06-02", d.Key.Date)
	assert.Equal(t, 2, d.Capacity)
	assert.Equal(t, 2, d.Consumed)
	assert.Equal(t, 0, d.Remaining())
}

func TestAdmit_ReportsTightestKeyWhenAdmitted(t *testing.T) {
	m := rangedModel(t, 4)
	l := NewLedger(m, []models.LedgerEntry{{Date: "2026-06-02", Consumed: 3}})

	d := Admit(m, l, nights("2026-06-01", "2026-06-02"), 1)
	assert.True(t, d.Admitted)
	assert.Equal(t, "2026-06-02", d.Key.Date)
	assert.Equal(t, 1, d.Remaining())
}

func TestAdmit_SlottedFullSlotRejects(t *testing.T) {
	m := slottedModel(t)
	key := models.LedgerKey{Date: "2026-06-01", Slot: "11:00"}
	l := NewLedger(m, []models.LedgerEntry{{Date: key.Date, Slot: key.Slot, Consumed: 6}})

	d := Admit(m, l, []models.LedgerKey{key}, 1)
	assert.False(t, d.Admitted)
	assert.Equal(t, key, d.Key)
}

func TestAdmit_UnknownSlotRejectsInsteadOfZeroCapacity(t *testing.T) {
	m := slottedModel(t)
	l := NewLedger(m, nil)

	d := Admit(m, l, []models.LedgerKey{{Date: "2026-06-01", Slot: "15:00"}}, 1)
	assert.False(t, d.Admitted)
	assert.Contains(t, d.Reason, "no capacity")
}

func TestAdmit_RejectsNonPositiveAmountsAndEmptyKeys(t *testing.T) {
	m := rangedModel(t, 5)
	l := NewLedger(m, nil)

	assert.False(t, Admit(m, l, nights("2026-06-01"), 0).Admitted)
	assert.False(t, Admit(m, l, nights("2026-06-01"), -1).Admitted)
	assert.False(t, Admit(m, l, nil, 1).Admitted)
}
