package walletpay

import "strconv"

// CaptureResult is the settled payment produced by capturing an
// approved Walletpay order.
type CaptureResult struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	CustomID string `json:"custom_id"`
	Amount   struct {
		Value        string `json:"value"`
		CurrencyCode string `json:"currency_code"`
	} `json:"amount"`
}

// IsCompleted reports whether the capture settled.
func (c *CaptureResult) IsCompleted() bool {
	return c.Status == "COMPLETED"
}

// AmountValue parses the decimal amount string.
func (c *CaptureResult) AmountValue() (float64, error) {
	return strconv.ParseFloat(c.Amount.Value, 64)
}

// captureResponse is the order-capture envelope. The capture we care
// about is nested under the first purchase unit.
type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []CaptureResult `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// ErrorResponse is the Walletpay error envelope.
type ErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
