package cardpay

// CheckoutSession is the Cardpay checkout session as returned by the
// sessions endpoint. AmountTotal is in minor units (cents).
type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// IsPaid reports whether Cardpay considers the session settled.
func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == "paid"
}

// AmountMajor converts the minor-unit total to major units.
func (s *CheckoutSession) AmountMajor() float64 {
	return float64(s.AmountTotal) / 100
}

// ErrorResponse is the Cardpay error envelope.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
