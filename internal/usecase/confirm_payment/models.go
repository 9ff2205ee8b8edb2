package confirm_payment

import "time"

// CardpayRequest is the normalized Cardpay webhook: a checkout session
// to verify. The session metadata carries the booking id.
type CardpayRequest struct {
	SessionID string
}

// WalletpayRequest is the normalized Walletpay webhook: an approved
// order to capture. The capture's custom id carries the member id.
type WalletpayRequest struct {
	OrderID string
	PayerID string
}

// PrefpayRequest is the normalized Prefpay webhook: a payment id to
// look up. The payment's external reference carries the member id.
type PrefpayRequest struct {
	PaymentID int64
}

// Response is the reconciliation outcome for a settled payment.
type Response struct {
	BookingID        int64   `json:"booking_id"`
	Status           string  `json:"status"`
	Gateway          string  `json:"gateway"`
	PaymentID        string  `json:"payment_id"`
	AmountCharged    float64 `json:"amount_charged"`
	AlreadyProcessed bool    `json:"already_processed"`
}

// outcome is the gateway-independent settled payment.
type outcome struct {
	gateway   string
	method    string
	paymentID string
	amount    float64
	bookingID int64 // set when the gateway round-trips the booking id
	userID    int64 // set when correlation is by member
}

// paidPayload is the outbox payload for a confirmed booking.
type paidPayload struct {
	BookingID     int64     `json:"booking_id"`
	Gateway       string    `json:"gateway"`
	PaymentID     string    `json:"payment_id"`
	AmountCharged float64   `json:"amount_charged"`
	CompletedAt   time.Time `json:"completed_at"`
}

// slotLostPayload is the outbox payload for a payment that settled
// after its slot was lost or its hold expired. Reason carries the
// cancellation reason; ManualRefund marks it for the back office.
type slotLostPayload struct {
	BookingID     int64   `json:"booking_id"`
	Gateway       string  `json:"gateway"`
	PaymentID     string  `json:"payment_id"`
	AmountCharged float64 `json:"amount_charged"`
	Reason        string  `json:"reason"`
	ManualRefund  bool    `json:"manual_refund"`
}
