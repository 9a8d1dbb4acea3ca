package service

import (
	"context"
	"fmt"

	"github.com/waxipay/go-waxipay/internal/models"
)

// Wallet запрашивает кошелёк текущего пользователя.
func (s *Service) Wallet(ctx context.Context) (models.Wallet, error) {
	const op = "service/wallet/Wallet"

	var wallet models.Wallet
	if err := s.client.Get(ctx, "/auth/wallet/", nil, &wallet); err != nil {
		return models.Wallet{}, fmt.Errorf("%s: %w", op, err)
	}

	return wallet, nil
}
