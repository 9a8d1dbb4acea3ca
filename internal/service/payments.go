package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/waxipay/go-waxipay/internal/client"
	"github.com/waxipay/go-waxipay/internal/models"
)

// InitiatePayment инициирует пополнение через платёжного агрегатора.
// Возвращённый PaymentURL вызывающий открывает во внешнем обработчике.
//
// Запрос несёт идемпотентный ключ: повтор после обрыва соединения не
// породит второй платёж на стороне бэкенда.
func (s *Service) InitiatePayment(ctx context.Context, req models.PaymentRequest) (models.PaymentResponse, error) {
	const op = "service/payments/InitiatePayment"

	if req.Amount == "" {
		return models.PaymentResponse{}, fmt.Errorf("%s: %w", op, ErrAmountRequired)
	}

	var resp models.PaymentResponse
	if err := s.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/payments/initiate/",
		Header: idempotencyHeader(),
		Body:   req,
	}, &resp); err != nil {
		return models.PaymentResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// InitiatePayout инициирует выплату на номер получателя.
func (s *Service) InitiatePayout(ctx context.Context, req models.PayoutRequest) (models.PayoutResponse, error) {
	const op = "service/payments/InitiatePayout"

	if req.Amount == "" {
		return models.PayoutResponse{}, fmt.Errorf("%s: %w", op, ErrAmountRequired)
	}

	if req.RecipientPhone == "" {
		return models.PayoutResponse{}, fmt.Errorf("%s: %w", op, ErrRecipientRequired)
	}

	var resp models.PayoutResponse
	if err := s.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/payments/payout/",
		Header: idempotencyHeader(),
		Body:   req,
	}, &resp); err != nil {
		return models.PayoutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func idempotencyHeader() http.Header {
	h := http.Header{}
	h.Set("X-Idempotency-Key", uuid.NewString())
	return h
}
