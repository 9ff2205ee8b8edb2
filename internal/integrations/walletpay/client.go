package walletpay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Walletpay orders API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a Walletpay client.
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CaptureOrder captures an approved order and returns the resulting
// capture. Capture is idempotent on the Walletpay side: repeating the
// call for an already-captured order returns the same capture.
func (c *Client) CaptureOrder(ctx context.Context, orderID, payerID string) (*CaptureResult, error) {
	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, orderID)

	body := fmt.Sprintf(`{"payer_id":%q}`, payerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrOrderNotFound
	case http.StatusUnprocessableEntity:
		return nil, ErrOrderNotApproved
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var captured captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&captured); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if len(captured.PurchaseUnits) == 0 || len(captured.PurchaseUnits[0].Payments.Captures) == 0 {
		return nil, fmt.Errorf("%w: capture response without captures", ErrInvalidResponse)
	}

	capture := captured.PurchaseUnits[0].Payments.Captures[0]
	c.log.Info("Captured walletpay order %s, capture_id=%s, status=%s", orderID, capture.ID, capture.Status)
	return &capture, nil
}
