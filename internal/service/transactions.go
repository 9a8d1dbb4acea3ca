package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/waxipay/go-waxipay/internal/models"
)

// Transactions возвращает историю операций с опциональными фильтрами.
// Бэкенд отдаёт либо плоский список, либо пагинированный конверт
// {results: [...]} — поддерживаются обе формы.
func (s *Service) Transactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	const op = "service/transactions/Transactions"

	query := url.Values{}

	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query.Set("payment_method", filter.PaymentMethod)
	}
	if filter.DateFrom != "" {
		query.Set("date_from", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query.Set("date_to", filter.DateTo)
	}

	var raw json.RawMessage
	if err := s.client.Get(ctx, "/transactions/", query, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, err := decodeTransactionList(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBadResponse, err)
	}

	return list, nil
}

// decodeTransactionList разбирает обе формы списка транзакций.
func decodeTransactionList(raw json.RawMessage) ([]models.Transaction, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Results []models.Transaction `json:"results"`
		}

		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}

		return env.Results, nil
	}

	var list []models.Transaction
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// Transaction возвращает одну транзакцию по идентификатору.
func (s *Service) Transaction(ctx context.Context, id string) (models.Transaction, error) {
	const op = "service/transactions/Transaction"

	var tx models.Transaction
	if err := s.client.Get(ctx, "/transactions/"+id+"/", nil, &tx); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	return tx, nil
}

// Stats возвращает агрегированную статистику для дашборда.
func (s *Service) Stats(ctx context.Context) (models.TransactionStats, error) {
	const op = "service/transactions/Stats"

	var env struct {
		Success bool                    `json:"success"`
		Data    models.TransactionStats `json:"data"`
	}

	if err := s.client.Get(ctx, "/transactions/stats/", nil, &env); err != nil {
		return models.TransactionStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return env.Data, nil
}
