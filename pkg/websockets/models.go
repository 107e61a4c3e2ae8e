package websockets

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeOfferUpdate is for messages about marketplace offer changes.
	MessageTypeOfferUpdate MessageType = "offerUpdate"
	// MessageTypeExchangeUpdate is for messages about completed or reverted exchanges.
	MessageTypeExchangeUpdate MessageType = "exchangeUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// OfferUpdatePayload is the payload for an offerUpdate message. Clients use it
// to refresh the marketplace feed without polling.
type OfferUpdatePayload struct {
	Tenant  string `json:"tenant"`
	OfferID string `json:"offer_id"`
	Date    string `json:"date"`
	Period  string `json:"period"`
	Status  string `json:"status"`
}

// ExchangeUpdatePayload is the payload for an exchangeUpdate message. Both
// users named in the exchange get their calendars refreshed.
type ExchangeUpdatePayload struct {
	Tenant         string `json:"tenant"`
	ExchangeID     string `json:"exchange_id"`
	OriginalUserID string `json:"original_user_id"`
	NewUserID      string `json:"new_user_id"`
	Date           string `json:"date"`
	Period         string `json:"period"`
	Status         string `json:"status"`
}
