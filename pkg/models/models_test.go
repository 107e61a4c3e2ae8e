package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	t.Run("Known Periods", func(t *testing.T) {
		for input, want := range map[string]Period{
			"MORNING":   MORNING,
			"morning":   MORNING,
			"Afternoon": AFTERNOON,
			"EVENING":   EVENING,
		} {
			got, err := ParsePeriod(input)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Unknown Period", func(t *testing.T) {
		_, err := ParsePeriod("NIGHT")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown period")
	})
}

func TestSlotKey(t *testing.T) {
	slot := Slot{Date: "2025-10-18", Period: EVENING}
	assert.Equal(t, "2025-10-18#EVENING", slot.Key())
}

func TestShiftDescriptorMatches(t *testing.T) {
	held := ShiftDescriptor{ShiftType: "G", TimeSlot: "08:00 - 14:00"}

	t.Run("Same Start Different End Formatting", func(t *testing.T) {
		offered := ShiftDescriptor{ShiftType: "G", TimeSlot: "08:00-14h"}
		assert.True(t, held.Matches(offered))
	})

	t.Run("Different Shift Type", func(t *testing.T) {
		offered := ShiftDescriptor{ShiftType: "U", TimeSlot: "08:00 - 14:00"}
		assert.False(t, held.Matches(offered))
	})

	t.Run("Different Start Time", func(t *testing.T) {
		offered := ShiftDescriptor{ShiftType: "G", TimeSlot: "14:00 - 20:00"}
		assert.False(t, held.Matches(offered))
	})
}

func TestOfferIsInterested(t *testing.T) {
	offer := Offer{InterestedUsers: []string{"user2", "user3"}}

	assert.True(t, offer.IsInterested("user2"))
	assert.False(t, offer.IsInterested("user4"))

	empty := Offer{}
	assert.False(t, empty.IsInterested("user2"))
}
