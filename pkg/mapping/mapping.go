package mapping

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/remi/shift-exchange/pkg/api"
	"github.com/remi/shift-exchange/pkg/models"
)

const dateLayout = "2006-01-02"

func toApiDate(isoDate string) openapi_types.Date {
	t, err := time.Parse(dateLayout, isoDate)
	if err != nil {
		// Stored dates are validated on the way in, so this only happens with
		// hand-edited data. Surface it as the zero date rather than failing a read.
		return openapi_types.Date{}
	}
	return openapi_types.Date{Time: t}
}

func toDomainDate(d openapi_types.Date) string {
	return d.Time.Format(dateLayout)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToApiOffer converts a domain Offer model to an API Offer model.
func ToApiOffer(offer *models.Offer) *api.Offer {
	interested := offer.InterestedUsers
	if interested == nil {
		interested = []string{}
	}
	return &api.Offer{
		Id:              offer.Id,
		Tenant:          offer.Tenant,
		UserId:          offer.UserId,
		Date:            toApiDate(offer.Slot.Date),
		Period:          api.Period(offer.Slot.Period),
		ShiftType:       offer.Shift.ShiftType,
		TimeSlot:        offer.Shift.TimeSlot,
		Comment:         optional(offer.Comment),
		InterestedUsers: interested,
		Status:          api.OfferStatus(offer.Status),
		Version:         offer.Version,
		CreatedAt:       offer.CreatedAt,
		LastModified:    offer.LastModified,
	}
}

// ToDomainNewOffer converts an API NewOffer model to a domain Offer model.
// The period is parsed strictly; an unknown value is the caller's error.
func ToDomainNewOffer(newOffer *api.NewOffer) (*models.Offer, error) {
	period, err := models.ParsePeriod(string(newOffer.Period))
	if err != nil {
		return nil, err
	}

	offer := &models.Offer{
		Tenant: newOffer.Tenant,
		UserId: newOffer.UserId,
		Slot: models.Slot{
			Date:   toDomainDate(newOffer.Date),
			Period: period,
		},
		Shift: models.ShiftDescriptor{
			ShiftType: newOffer.ShiftType,
			TimeSlot:  newOffer.TimeSlot,
		},
	}
	if newOffer.Comment != nil {
		offer.Comment = *newOffer.Comment
	}
	return offer, nil
}

// ToApiExchange converts a domain HistoryRecord model to an API Exchange model.
func ToApiExchange(record *models.HistoryRecord) *api.Exchange {
	interested := record.InterestedUsers
	if interested == nil {
		interested = []string{}
	}
	exchange := &api.Exchange{
		Id:              record.Id,
		Tenant:          record.Tenant,
		OriginalUserId:  record.OriginalUserId,
		NewUserId:       record.NewUserId,
		Date:            toApiDate(record.Slot.Date),
		Period:          api.Period(record.Slot.Period),
		ShiftType:       record.Shift.ShiftType,
		TimeSlot:        record.Shift.TimeSlot,
		IsPermutation:   record.IsPermutation,
		Status:          api.ExchangeStatus(record.Status),
		Comment:         optional(record.Comment),
		InterestedUsers: interested,
		ValidatedBy:     optional(record.ValidatedBy),
		Version:         record.Version,
		ExchangedAt:     record.ExchangedAt,
	}
	if record.NewUserShift != nil {
		exchange.NewUserShiftType = optional(record.NewUserShift.ShiftType)
		exchange.NewUserTimeSlot = optional(record.NewUserShift.TimeSlot)
	}
	return exchange
}

// ToApiAssignment converts a domain Assignment model to an API Assignment model.
func ToApiAssignment(assignment *models.Assignment) *api.Assignment {
	return &api.Assignment{
		Tenant:    assignment.Tenant,
		UserId:    assignment.UserId,
		Date:      toApiDate(assignment.Slot.Date),
		Period:    api.Period(assignment.Slot.Period),
		ShiftType: assignment.Shift.ShiftType,
		TimeSlot:  assignment.Shift.TimeSlot,
		Version:   assignment.Version,
		UpdatedAt: assignment.UpdatedAt,
	}
}

// ToDomainNewAssignment converts an API NewAssignment model to a domain Assignment model.
func ToDomainNewAssignment(newAssignment *api.NewAssignment) (*models.Assignment, error) {
	period, err := models.ParsePeriod(string(newAssignment.Period))
	if err != nil {
		return nil, err
	}

	return &models.Assignment{
		Tenant: newAssignment.Tenant,
		UserId: newAssignment.UserId,
		Slot: models.Slot{
			Date:   toDomainDate(newAssignment.Date),
			Period: period,
		},
		Shift: models.ShiftDescriptor{
			ShiftType: newAssignment.ShiftType,
			TimeSlot:  newAssignment.TimeSlot,
		},
	}, nil
}
