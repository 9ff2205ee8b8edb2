package payment_webhooks

import (
	"errors"
	"net/http"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers"
	confirmPayment "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/confirm_payment"
)

const (
	msgInvalidRequestBody = "cuerpo de la notificación inválido"
	msgGatewayFailed      = "no se pudo verificar el pago con la pasarela"
)

// Terminal ack statuses. The gateway stops retrying on any 200.
const (
	ackConfirmed        = "confirmed"
	ackAlreadyProcessed = "already_processed"
	ackSlotLost         = "slot_lost_refund_pending"
	ackHoldExpired      = "hold_expired_refund_pending"
	ackNotSettled       = "not_settled"
	ackUnmatched        = "unmatched"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleCardpay POST /api/v1/webhooks/payments/cardpay
func (h *Handler) HandleCardpay(w http.ResponseWriter, r *http.Request) {
	var req CardpayWebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.SessionID == "" {
		h.logger.Warn("POST /webhooks/payments/cardpay - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.ExecuteCardpay(r.Context(), &confirmPayment.CardpayRequest{
		SessionID: req.SessionID,
	})
	h.respond(w, "cardpay", req.SessionID, result, err)
}

// HandleWalletpay POST /api/v1/webhooks/payments/walletpay
func (h *Handler) HandleWalletpay(w http.ResponseWriter, r *http.Request) {
	var req WalletpayWebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.OrderID == "" {
		h.logger.Warn("POST /webhooks/payments/walletpay - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.ExecuteWalletpay(r.Context(), &confirmPayment.WalletpayRequest{
		OrderID: req.OrderID,
		PayerID: req.PayerID,
	})
	h.respond(w, "walletpay", req.OrderID, result, err)
}

// HandlePrefpay POST /api/v1/webhooks/payments/prefpay
func (h *Handler) HandlePrefpay(w http.ResponseWriter, r *http.Request) {
	var req PrefpayWebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.PaymentID == 0 {
		h.logger.Warn("POST /webhooks/payments/prefpay - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.ExecutePrefpay(r.Context(), &confirmPayment.PrefpayRequest{
		PaymentID: req.PaymentID,
	})
	h.respond(w, "prefpay", req.PaymentID, result, err)
}

// respond maps reconciliation outcomes onto webhook semantics: every
// terminal outcome answers 200 so the gateway stops retrying, and only
// transient failures answer 5xx.
func (h *Handler) respond(w http.ResponseWriter, gateway string, ref interface{}, result *confirmPayment.Response, err error) {
	if err == nil {
		status := ackConfirmed
		if result.AlreadyProcessed {
			status = ackAlreadyProcessed
		}
		h.logger.Info("POST /webhooks/payments/%s - Payment reconciled: ref=%v, booking_id=%d, status=%s",
			gateway, ref, result.BookingID, status)
		handlers.RespondJSON(w, http.StatusOK, WebhookAck{Status: status, BookingID: result.BookingID})
		return
	}

	switch {
	case errors.Is(err, confirmPayment.ErrSlotLost):
		h.logger.Warn("POST /webhooks/payments/%s - Slot lost, refund pending: ref=%v", gateway, ref)
		handlers.RespondJSON(w, http.StatusOK, WebhookAck{Status: ackSlotLost})

	case errors.Is(err, confirmPayment.ErrHoldExpired):
		h.logger.Warn("POST /webhooks/payments/%s - Hold expired, refund pending: ref=%v", gateway, ref)
		handlers.RespondJSON(w, http.StatusOK, WebhookAck{Status: ackHoldExpired})

	case errors.Is(err, confirmPayment.ErrPaymentNotSettled):
		h.logger.Info("POST /webhooks/payments/%s - Payment not settled yet: ref=%v", gateway, ref)
		handlers.RespondJSON(w, http.StatusOK, WebhookAck{Status: ackNotSettled})

	case errors.Is(err, confirmPayment.ErrPaymentNotFound),
		errors.Is(err, confirmPayment.ErrBookingNotFound),
		errors.Is(err, confirmPayment.ErrNoPendingHold):
		// Terminal: retrying the same notification cannot match it.
		h.logger.Warn("POST /webhooks/payments/%s - Unmatched payment: ref=%v, error=%v", gateway, ref, err)
		handlers.RespondJSON(w, http.StatusOK, WebhookAck{Status: ackUnmatched})

	case errors.Is(err, confirmPayment.ErrInvalidInput):
		h.logger.Warn("POST /webhooks/payments/%s - Invalid input: ref=%v", gateway, ref)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	case errors.Is(err, confirmPayment.ErrGateway):
		h.logger.Error("POST /webhooks/payments/%s - Gateway verification failed: ref=%v, error=%v",
			gateway, ref, err)
		handlers.RespondBadGateway(w, msgGatewayFailed)

	default:
		h.logger.Error("POST /webhooks/payments/%s - Failed to reconcile: ref=%v, error=%v", gateway, ref, err)
		handlers.RespondInternalError(w)
	}
}
