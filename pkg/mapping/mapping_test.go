package mapping

import (
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/remi/shift-exchange/pkg/api"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestToDomainNewOffer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		offer, err := ToDomainNewOffer(&api.NewOffer{
			Tenant:    "amc",
			UserId:    "user1",
			Date:      openapi_types.Date{Time: time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)},
			Period:    api.MORNING,
			ShiftType: "G",
			TimeSlot:  "08:00 - 14:00",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2025-10-18", offer.Slot.Date)
		assert.Equal(t, models.MORNING, offer.Slot.Period)
	})

	t.Run("Unknown Period", func(t *testing.T) {
		_, err := ToDomainNewOffer(&api.NewOffer{Period: "NIGHT"})

		assert.Error(t, err)
	})
}

func TestToApiOffer(t *testing.T) {
	t.Run("Nil Interested Users Serialize As Empty List", func(t *testing.T) {
		apiOffer := ToApiOffer(&models.Offer{
			Id:     "offer-1",
			Tenant: "amc",
			Slot:   models.Slot{Date: "2025-10-18", Period: models.MORNING},
			Status: models.PENDING,
		})

		assert.NotNil(t, apiOffer.InterestedUsers)
		assert.Empty(t, apiOffer.InterestedUsers)
		assert.Nil(t, apiOffer.Comment)
	})
}

func TestToApiExchange(t *testing.T) {
	t.Run("Permutation Carries New User Shift", func(t *testing.T) {
		exchange := ToApiExchange(&models.HistoryRecord{
			Id:            "offer-1",
			Tenant:        "amc",
			Slot:          models.Slot{Date: "2025-10-18", Period: models.MORNING},
			IsPermutation: true,
			NewUserShift:  &models.ShiftDescriptor{ShiftType: "U", TimeSlot: "14:00 - 20:00"},
			Status:        models.COMPLETED,
		})

		assert.True(t, exchange.IsPermutation)
		if assert.NotNil(t, exchange.NewUserShiftType) {
			assert.Equal(t, "U", *exchange.NewUserShiftType)
		}
	})

	t.Run("Transfer Leaves New User Shift Empty", func(t *testing.T) {
		exchange := ToApiExchange(&models.HistoryRecord{
			Id:     "offer-1",
			Tenant: "amc",
			Slot:   models.Slot{Date: "2025-10-18", Period: models.MORNING},
			Status: models.COMPLETED,
		})

		assert.False(t, exchange.IsPermutation)
		assert.Nil(t, exchange.NewUserShiftType)
		assert.Nil(t, exchange.NewUserTimeSlot)
	})
}
