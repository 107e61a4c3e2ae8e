package models

import (
	"fmt"
	"strings"
	"time"
)

// Period identifies the part of the day a shift covers.
type Period string

const (
	MORNING   Period = "MORNING"
	AFTERNOON Period = "AFTERNOON"
	EVENING   Period = "EVENING"
)

// ParsePeriod converts a wire-level period string into a Period.
// Unknown values are an error; there is no fallback branch.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToUpper(s)) {
	case MORNING:
		return MORNING, nil
	case AFTERNOON:
		return AFTERNOON, nil
	case EVENING:
		return EVENING, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Slot is one unit of coverage: a calendar date plus a period.
// Date is an ISO calendar date (2006-01-02) with no time component.
type Slot struct {
	Date   string `dynamodbav:"date" json:"date"`
	Period Period `dynamodbav:"period" json:"period"`
}

// Key returns the canonical "date#period" form used as a sort key component.
func (s Slot) Key() string {
	return s.Date + "#" + string(s.Period)
}

// ShiftDescriptor describes the shift held at a slot: the shift type code
// (e.g. "G") and the human-readable time range (e.g. "08:00 - 14:00").
type ShiftDescriptor struct {
	ShiftType string `dynamodbav:"shift_type" json:"shift_type"`
	TimeSlot  string `dynamodbav:"time_slot" json:"time_slot"`
}

// StartTime returns the start portion of the time range.
// Assignment equality deliberately compares start times only: the roster and
// the exchange listing may disagree on end-time formatting for the same shift.
func (d ShiftDescriptor) StartTime() string {
	start, _, _ := strings.Cut(d.TimeSlot, "-")
	return strings.TrimSpace(start)
}

// Matches reports whether two descriptors identify the same shift,
// using the tolerant start-time comparison.
func (d ShiftDescriptor) Matches(other ShiftDescriptor) bool {
	return d.ShiftType == other.ShiftType && d.StartTime() == other.StartTime()
}

// OfferStatus defines the possible states of an exchange offer.
type OfferStatus string

const (
	PENDING     OfferStatus = "PENDING"
	UNAVAILABLE OfferStatus = "UNAVAILABLE"
	VALIDATED   OfferStatus = "VALIDATED"
	CANCELLED   OfferStatus = "CANCELLED"
)

// Offer represents a shift listed for exchange.
// It includes dynamodbav tags for marshalling.
type Offer struct {
	Id              string          `dynamodbav:"id" json:"id"`
	Tenant          string          `dynamodbav:"tenant" json:"tenant"`
	UserId          string          `dynamodbav:"user_id" json:"user_id"`
	Slot            Slot            `dynamodbav:"slot" json:"slot"`
	Shift           ShiftDescriptor `dynamodbav:"shift" json:"shift"`
	Comment         string          `dynamodbav:"comment,omitempty" json:"comment,omitempty"`
	InterestedUsers []string        `dynamodbav:"interested_users,omitemptyelem" json:"interested_users"`
	Status          OfferStatus     `dynamodbav:"status" json:"status"`
	Version         int64           `dynamodbav:"version" json:"version"`
	CreatedAt       time.Time       `dynamodbav:"created_at" json:"created_at"`
	LastModified    time.Time       `dynamodbav:"last_modified" json:"last_modified"`
}

// IsInterested reports whether the given user is in the interested set.
// Membership is the only semantic; order is irrelevant.
func (o *Offer) IsInterested(userID string) bool {
	for _, u := range o.InterestedUsers {
		if u == userID {
			return true
		}
	}
	return false
}

// HistoryStatus defines the possible states of a history record.
type HistoryStatus string

const (
	COMPLETED HistoryStatus = "COMPLETED"
	REVERTED  HistoryStatus = "REVERTED"
)

// HistoryRecord is the durable, revertible record of a completed match.
// It is keyed by the originating offer id and captures both shift descriptors
// so the match can be undone exactly.
type HistoryRecord struct {
	Id             string `dynamodbav:"id" json:"id"`
	Tenant         string `dynamodbav:"tenant" json:"tenant"`
	OriginalUserId string `dynamodbav:"original_user_id" json:"original_user_id"`
	NewUserId      string `dynamodbav:"new_user_id" json:"new_user_id"`
	Slot           Slot   `dynamodbav:"slot" json:"slot"`
	// Shift is the descriptor of the transferred unit (the offering user's
	// shift at match time). NewUserShift is the interested user's own shift at
	// the same slot; nil for a simple transfer.
	Shift           ShiftDescriptor  `dynamodbav:"shift" json:"shift"`
	NewUserShift    *ShiftDescriptor `dynamodbav:"new_user_shift,omitempty" json:"new_user_shift,omitempty"`
	IsPermutation   bool             `dynamodbav:"is_permutation" json:"is_permutation"`
	Status          HistoryStatus    `dynamodbav:"status" json:"status"`
	Comment         string           `dynamodbav:"comment,omitempty" json:"comment,omitempty"`
	InterestedUsers []string         `dynamodbav:"interested_users,omitemptyelem" json:"interested_users"`
	ValidatedBy     string           `dynamodbav:"validated_by,omitempty" json:"validated_by,omitempty"`
	Version         int64            `dynamodbav:"version" json:"version"`
	ExchangedAt     time.Time        `dynamodbav:"exchanged_at" json:"exchanged_at"`
}

// Assignment is one entry of the per-user assignment map: the shift a user
// currently holds at a slot. The scheduling subsystem owns this collection;
// the exchange engine only reads entries and rewrites them inside a match or
// revert commit.
type Assignment struct {
	Tenant    string          `dynamodbav:"tenant" json:"tenant"`
	UserId    string          `dynamodbav:"user_id" json:"user_id"`
	Slot      Slot            `dynamodbav:"slot" json:"slot"`
	Shift     ShiftDescriptor `dynamodbav:"shift" json:"shift"`
	Version   int64           `dynamodbav:"version" json:"version"`
	UpdatedAt time.Time       `dynamodbav:"updated_at" json:"updated_at"`
}
