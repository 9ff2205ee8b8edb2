package payment_webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	confirmPayment "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/confirm_payment"
)

type stubUseCase struct {
	result *confirmPayment.Response
	err    error
}

func (s *stubUseCase) ExecuteCardpay(ctx context.Context, req *confirmPayment.CardpayRequest) (*confirmPayment.Response, error) {
	return s.result, s.err
}

func (s *stubUseCase) ExecuteWalletpay(ctx context.Context, req *confirmPayment.WalletpayRequest) (*confirmPayment.Response, error) {
	return s.result, s.err
}

func (s *stubUseCase) ExecutePrefpay(ctx context.Context, req *confirmPayment.PrefpayRequest) (*confirmPayment.Response, error) {
	return s.result, s.err
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func postCardpay(t *testing.T, h *Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments/cardpay", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.HandleCardpay(rec, req)
	return rec
}

func decodeAck(t *testing.T, rec *httptest.ResponseRecorder) WebhookAck {
	t.Helper()
	var ack WebhookAck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	return ack
}

func TestHandleCardpay_Confirmed(t *testing.T) {
	h := NewHandler(&stubUseCase{result: &confirmPayment.Response{
		BookingID: 42,
		Status:    "paid",
		Gateway:   "cardpay",
	}}, nopLogger{})

	rec := postCardpay(t, h, CardpayWebhookRequest{SessionID: "cs_123"})

	assert.Equal(t, http.StatusOK, rec.Code)
	ack := decodeAck(t, rec)
	assert.Equal(t, ackConfirmed, ack.Status)
	assert.Equal(t, int64(42), ack.BookingID)
}

func TestHandleCardpay_DuplicateIsAcknowledged(t *testing.T) {
	h := NewHandler(&stubUseCase{result: &confirmPayment.Response{
		BookingID:        42,
		AlreadyProcessed: true,
	}}, nopLogger{})

	rec := postCardpay(t, h, CardpayWebhookRequest{SessionID: "cs_123"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ackAlreadyProcessed, decodeAck(t, rec).Status)
}

func TestHandleCardpay_SlotLostIsTerminal(t *testing.T) {
	h := NewHandler(&stubUseCase{err: confirmPayment.ErrSlotLost}, nopLogger{})

	rec := postCardpay(t, h, CardpayWebhookRequest{SessionID: "cs_123"})

	// 200 so the gateway stops retrying; the refund is manual.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ackSlotLost, decodeAck(t, rec).Status)
}

func TestHandleCardpay_HoldExpiredIsTerminal(t *testing.T) {
	h := NewHandler(&stubUseCase{err: confirmPayment.ErrHoldExpired}, nopLogger{})

	rec := postCardpay(t, h, CardpayWebhookRequest{SessionID: "cs_123"})

	// Same contract as a lost slot: acknowledged, refunded manually.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ackHoldExpired, decodeAck(t, rec).Status)
}

func TestHandleCardpay_GatewayDownIsRetryable(t *testing.T) {
	h := NewHandler(&stubUseCase{err: confirmPayment.ErrGateway}, nopLogger{})

	rec := postCardpay(t, h, CardpayWebhookRequest{SessionID: "cs_123"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleCardpay_MissingSessionID(t *testing.T) {
	h := NewHandler(&stubUseCase{}, nopLogger{})

	rec := postCardpay(t, h, CardpayWebhookRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWalletpay_NoPendingHoldIsTerminal(t *testing.T) {
	h := NewHandler(&stubUseCase{err: confirmPayment.ErrNoPendingHold}, nopLogger{})

	raw, err := json.Marshal(WalletpayWebhookRequest{OrderID: "ORD-1", PayerID: "PAYER-1"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments/walletpay", bytes.NewReader(raw))
	rec := httptest.NewRecorder()

	h.HandleWalletpay(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ackUnmatched, decodeAck(t, rec).Status)
}

func TestHandlePrefpay_NotSettledIsAcknowledged(t *testing.T) {
	h := NewHandler(&stubUseCase{err: confirmPayment.ErrPaymentNotSettled}, nopLogger{})

	raw, err := json.Marshal(PrefpayWebhookRequest{PaymentID: 555})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments/prefpay", bytes.NewReader(raw))
	rec := httptest.NewRecorder()

	h.HandlePrefpay(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ackNotSettled, decodeAck(t, rec).Status)
}

func TestHandlePrefpay_MissingPaymentID(t *testing.T) {
	h := NewHandler(&stubUseCase{}, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments/prefpay",
		bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.HandlePrefpay(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
