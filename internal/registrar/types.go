package registrar

// EventAddressTransaction is the only subscription type the registrar creates.
const EventAddressTransaction = "ADDRESS_TRANSACTION"

// SubscriptionPath is appended to the provider base URL.
const SubscriptionPath = "/v3/subscription"

// Subscription is what the caller wants registered.
type Subscription struct {
	APIKey      string
	Address     string
	CallbackURL string
	// Chain defaults to "BTC" when empty.
	Chain string
}

// SubscriptionRequest is the JSON body sent to the provider.
type SubscriptionRequest struct {
	Type string           `json:"type"`
	Attr SubscriptionAttr `json:"attr"`
}

// SubscriptionAttr carries the monitored address and the callback.
type SubscriptionAttr struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	URL     string `json:"url"`
}

// SubscriptionResponse is the provider's reply to a successful create.
type SubscriptionResponse struct {
	ID string `json:"id"`
}
