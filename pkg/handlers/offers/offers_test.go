package offers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/remi/shift-exchange/pkg/api"
	"github.com/remi/shift-exchange/pkg/models"
	"github.com/remi/shift-exchange/pkg/storage"
	storage_mocks "github.com/remi/shift-exchange/pkg/storage/mocks"
	"github.com/remi/shift-exchange/pkg/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testSlot = models.Slot{Date: "2025-10-18", Period: models.MORNING}

func createdOfferFixture() *models.Offer {
	return &models.Offer{
		Id:     "offer-1",
		Tenant: "amc",
		UserId: "user1",
		Slot:   testSlot,
		Shift:  models.ShiftDescriptor{ShiftType: "G", TimeSlot: "08:00 - 14:00"},
		Status: models.PENDING,
	}
}

func TestCreateOffer(t *testing.T) {
	newOffer := &api.NewOffer{
		Tenant:    "amc",
		UserId:    "user1",
		Date:      openapi_types.Date{Time: time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)},
		Period:    api.MORNING,
		ShiftType: "G",
		TimeSlot:  "08:00 - 14:00",
	}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("CreateOffer", mock.Anything, mock.AnythingOfType("*models.Offer")).Return(createdOfferFixture(), nil)

		body, _ := json.Marshal(newOffer)
		req := httptest.NewRequest(http.MethodPost, "/offers", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CreateOffer(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var got api.Offer
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "offer-1", got.Id)
		assert.Equal(t, api.OfferStatusPENDING, got.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("No Matching Shift", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("CreateOffer", mock.Anything, mock.Anything).Return(nil, storage.ErrGuardNotFound)

		body, _ := json.Marshal(newOffer)
		req := httptest.NewRequest(http.MethodPost, "/offers", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CreateOffer(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Unknown Period", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		bad := *newOffer
		bad.Period = "NIGHT"
		body, _ := json.Marshal(&bad)
		req := httptest.NewRequest(http.MethodPost, "/offers", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CreateOffer(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "CreateOffer")
	})
}

func TestListOffers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ListActiveOffers", mock.Anything, "amc", mock.AnythingOfType("time.Time")).
			Return([]models.Offer{*createdOfferFixture()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/offers?tenant=amc", nil)
		rr := httptest.NewRecorder()

		handler.ListOffers(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got []api.Offer
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Len(t, got, 1)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Missing Tenant", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		req := httptest.NewRequest(http.MethodGet, "/offers", nil)
		rr := httptest.NewRecorder()

		handler.ListOffers(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "ListActiveOffers")
	})
}

func TestExpressInterest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ExpressInterest", mock.Anything, "offer-1", "user2").Return(nil)
		mockStorage.On("GetOffer", mock.Anything, "offer-1").Return(createdOfferFixture(), nil).Maybe()

		body, _ := json.Marshal(api.InterestRequest{UserId: "user2"})
		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/interest", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ExpressInterest(rr, req, "offer-1")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Offer Taken", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ExpressInterest", mock.Anything, "offer-1", "user2").Return(storage.ErrExchangeUnavailable)

		body, _ := json.Marshal(api.InterestRequest{UserId: "user2"})
		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/interest", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ExpressInterest(rr, req, "offer-1")

		assert.Equal(t, http.StatusGone, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Already Booked At Slot", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("ExpressInterest", mock.Anything, "offer-1", "user2").Return(storage.ErrUserHasGuard)

		body, _ := json.Marshal(api.InterestRequest{UserId: "user2"})
		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/interest", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.ExpressInterest(rr, req, "offer-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestWithdrawInterest(t *testing.T) {
	mockStorage := new(storage_mocks.Storage)
	handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

	mockStorage.On("WithdrawInterest", mock.Anything, "offer-1", "user2").Return(nil)
	mockStorage.On("GetOffer", mock.Anything, "offer-1").Return(createdOfferFixture(), nil).Maybe()

	req := httptest.NewRequest(http.MethodDelete, "/offers/offer-1/interest/user2", nil)
	rr := httptest.NewRecorder()

	handler.WithdrawInterest(rr, req, "offer-1", "user2")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	mockStorage.AssertExpectations(t)
}

func TestCancelOffer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		cancelled := createdOfferFixture()
		cancelled.Status = models.CANCELLED
		mockStorage.On("CancelOffer", mock.Anything, "offer-1").Return(cancelled, nil)

		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/cancel", nil)
		rr := httptest.NewRecorder()

		handler.CancelOffer(rr, req, "offer-1")

		assert.Equal(t, http.StatusOK, rr.Code)

		var got api.Offer
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, api.OfferStatusCANCELLED, got.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Frozen By Match", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewOffersHandler(mockStorage, &websockets.NoOpPublisher{})

		mockStorage.On("CancelOffer", mock.Anything, "offer-1").Return(nil, storage.ErrExchangeUnavailable)

		req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/cancel", nil)
		rr := httptest.NewRecorder()

		handler.CancelOffer(rr, req, "offer-1")

		assert.Equal(t, http.StatusGone, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}
