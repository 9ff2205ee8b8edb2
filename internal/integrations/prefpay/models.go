package prefpay

// Payment is a Prefpay payment. Webhooks carry only the payment id;
// everything else must be fetched from this resource.
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
	ExternalReference string  `json:"external_reference"`
}

// IsApproved reports whether the payment settled.
func (p *Payment) IsApproved() bool {
	return p.Status == "approved"
}

// ErrorResponse is the Prefpay error envelope.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
