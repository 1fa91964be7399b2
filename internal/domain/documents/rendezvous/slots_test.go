package rendezvous

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinova/internal/core/id"
)

func day(hour, min int) time.Time {
	return time.Date(2026, 9, 14, hour, min, 0, 0, time.UTC)
}

func TestSlotsForDate_FullGrid(t *testing.T) {
	slots := SlotsForDate(day(0, 0), DefaultOpeningHours(), nil)

	// 09:00 to 18:00 in 30-minute steps: 18 slots
	require.Len(t, slots, 18)
	assert.Equal(t, day(9, 0), slots[0].Start)
	assert.Equal(t, day(9, 30), slots[0].End)
	assert.Equal(t, day(17, 30), slots[17].Start)
	assert.Equal(t, day(18, 0), slots[17].End)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestSlotsForDate_BookedBlocksOverlap(t *testing.T) {
	// 10:00 appointment lasting 45 minutes blocks 10:00 and 10:30
	rdv := NewRendezVous("AB123456", id.New(), day(10, 0), 45)

	slots := SlotsForDate(day(0, 0), DefaultOpeningHours(), []RendezVous{*rdv})

	byStart := map[time.Time]bool{}
	for _, s := range slots {
		byStart[s.Start] = s.Available
	}
	assert.True(t, byStart[day(9, 30)])
	assert.False(t, byStart[day(10, 0)])
	assert.False(t, byStart[day(10, 30)])
	assert.True(t, byStart[day(11, 0)])
}

func TestSlotsForDate_CancelledFreesSlot(t *testing.T) {
	rdv := NewRendezVous("AB123456", id.New(), day(10, 0), 30)
	rdv.Status = StatusAnnule

	free := AvailableSlots(day(0, 0), DefaultOpeningHours(), []RendezVous{*rdv})

	assert.Len(t, free, 18)
}

func TestAvailableSlots_FiltersBooked(t *testing.T) {
	first := NewRendezVous("AB123456", id.New(), day(9, 0), 30)
	second := NewRendezVous("CD654321", id.New(), day(17, 30), 30)

	free := AvailableSlots(day(0, 0), DefaultOpeningHours(), []RendezVous{*first, *second})

	require.Len(t, free, 16)
	assert.Equal(t, day(9, 30), free[0].Start)
	assert.Equal(t, day(17, 0), free[15].Start)
}

func TestOverlaps(t *testing.T) {
	rdv := NewRendezVous("AB123456", id.New(), day(10, 0), 30)

	assert.True(t, rdv.Overlaps(day(10, 0), day(10, 30)))
	assert.True(t, rdv.Overlaps(day(9, 45), day(10, 15)))
	// touching boundaries do not overlap
	assert.False(t, rdv.Overlaps(day(9, 30), day(10, 0)))
	assert.False(t, rdv.Overlaps(day(10, 30), day(11, 0)))
}
