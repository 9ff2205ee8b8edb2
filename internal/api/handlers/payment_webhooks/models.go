package payment_webhooks

// CardpayWebhookRequest is the Cardpay checkout notification. Only the
// session id is trusted; everything else is re-verified at the gateway.
type CardpayWebhookRequest struct {
	SessionID string `json:"session_id"`
}

// WalletpayWebhookRequest is the Walletpay approval notification. The
// order is captured at the gateway before any state changes.
type WalletpayWebhookRequest struct {
	OrderID string `json:"order_id"`
	PayerID string `json:"payer_id"`
}

// PrefpayWebhookRequest is the Prefpay payment notification. The
// payment is looked up at the gateway before any state changes.
type PrefpayWebhookRequest struct {
	PaymentID int64 `json:"payment_id"`
}

// WebhookAck is the acknowledgement body for terminal outcomes that
// the gateway must not retry.
type WebhookAck struct {
	Status    string `json:"status"`
	BookingID int64  `json:"booking_id,omitempty"`
}
