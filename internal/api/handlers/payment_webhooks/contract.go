package payment_webhooks

import (
	"context"

	confirmPayment "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/confirm_payment"
)

type ConfirmPaymentUseCase interface {
	ExecuteCardpay(ctx context.Context, req *confirmPayment.CardpayRequest) (*confirmPayment.Response, error)
	ExecuteWalletpay(ctx context.Context, req *confirmPayment.WalletpayRequest) (*confirmPayment.Response, error)
	ExecutePrefpay(ctx context.Context, req *confirmPayment.PrefpayRequest) (*confirmPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
