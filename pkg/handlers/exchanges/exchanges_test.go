package exchanges

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/remi/shift-exchange/pkg/api"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
	storage_mocks "github.com/remi/shift-exchange/pkg/storage/mocks"
	"github.com/remi/shift-exchange/pkg/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func completedRecord() *models.HistoryRecord {
	return &models.HistoryRecord{
		Id:             "offer-1",
		Tenant:         "amc",
		OriginalUserId: "user1",
		NewUserId:      "user2",
		Slot:           models.Slot{Date: "2025-10-18", Period: models.MORNING},
		Shift:          models.ShiftDescriptor{ShiftType: "G", TimeSlot: "08:00 - 14:00"},
		Status:         models.COMPLETED,
		ValidatedBy:    "admin1",
		Version:        1,
		ExchangedAt:    time.Now(),
	}
}

func validateBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(api.ValidateRequest{InterestedUserId: "user2", ValidatedBy: "admin1"})
	assert.NoError(t, err)
	return bytes.NewReader(body)
}

func TestValidateMatch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewExchangesHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ValidateMatch", mock.Anything, "offer-1", "user2", "admin1").Return(completedRecord(), nil)

		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/validate", validateBody(t))
		rr := httptest.NewRecorder()

		handler.ValidateMatch(rr, req, "offer-1")

		assert.Equal(t, http.StatusCreated, rr.Code)

		var got api.Exchange
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "offer-1", got.Id)
		assert.Equal(t, api.ExchangeStatusCOMPLETED, got.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Lost To Concurrent Match", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewExchangesHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ValidateMatch", mock.Anything, "offer-1", "user2", "admin1").Return(nil, storage.ErrExchangeUnavailable)

		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/validate", validateBody(t))
		rr := httptest.NewRecorder()

		handler.ValidateMatch(rr, req, "offer-1")

		assert.Equal(t, http.StatusGone, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("User Not Interested", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewExchangesHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ValidateMatch", mock.Anything, "offer-1", "user2", "admin1").Return(nil, storage.ErrInvalidExchange)

		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/validate", validateBody(t))
		rr := httptest.NewRecorder()

		handler.ValidateMatch(rr, req, "offer-1")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestRevertExchange(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewExchangesHandler(mockStorage, &websockets.NoOpPublisher{})

		relisted := &models.Offer{
			Id:     "offer-5",
			Tenant: "amc",
			UserId: "user1",
			Slot:   models.Slot{Date: "2025-10-18", Period: models.MORNING},
			Status: models.PENDING,
		}
		mockStorage.On("RevertMatch", mock.Anything, "offer-1").Return(relisted, nil)
		mockStorage.On("GetHistoryRecord", mock.Anything, "offer-1").Return(completedRecord(), nil).Maybe()

		req := httptest.NewRequest(http.MethodPost, "/exchanges/offer-1/revert", nil)
		rr := httptest.NewRecorder()

		handler.RevertExchange(rr, req, "offer-1")

		assert.Equal(t, http.StatusCreated, rr.Code)

		var got api.Offer
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "offer-5", got.Id)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Not Revertible", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewExchangesHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("RevertMatch", mock.Anything, "offer-1").Return(nil, storage.ErrInvalidExchange)

		req := httptest.NewRequest(http.MethodPost, "/exchanges/offer-1/revert", nil)
		rr := httptest.NewRecorder()

		handler.RevertExchange(rr, req, "offer-1")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestListExchanges(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewExchangesHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ListHistory", mock.Anything, "amc", defaultHistoryLimit).
			Return([]models.HistoryRecord{*completedRecord()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/exchanges?tenant=amc", nil)
		rr := httptest.NewRecorder()

		handler.ListExchanges(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got []api.Exchange
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Len(t, got, 1)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Missing Tenant", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewExchangesHandler(mockStorage, &websockets.NoOpPublisher{})

		req := httptest.NewRequest(http.MethodGet, "/exchanges", nil)
		rr := httptest.NewRecorder()

		handler.ListExchanges(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "ListHistory")
	})
}
