package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/waxipay/go-waxipay/internal/metrics"
	"github.com/waxipay/go-waxipay/internal/models"
	"github.com/waxipay/go-waxipay/internal/pkg/log"
)

const refreshPath = "/auth/token/refresh/"

// refreshAccess выполняет refresh-обмен для протухшей пары stale.
//
// Ключ singleflight — протухший access-токен: все 401 одного окна делят
// ровно один обмен, опоздавшие ждут его исхода и переиспользуют результат.
// Контекстом обмена управляет первый вошедший; присоединившиеся получают
// его исход даже при отмене собственного контекста.
//
// Провал обмена — принудительный выход: сессия и хранилище очищаются,
// наружу уходит ErrSessionExpired (не исходный 401). Снимок epoch защищает
// от гонки с logout: если сессию успели очистить, результат отбрасывается.
func (c *Client) refreshAccess(ctx context.Context, stale models.TokenPair, epoch uint64) error {
	const op = "client/refreshAccess"

	lg := log.From(ctx)

	_, err, shared := c.group.Do(stale.Access, func() (any, error) {
		var out models.RefreshResponse

		if err := c.exchange(ctx, stale.Refresh, &out); err != nil {
			c.metrics.ObserveRefresh(metrics.RefreshFailed)
			lg.Warn("token_refresh_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)

			if cerr := c.session.Clear(ctx); cerr != nil {
				lg.Warn("session_clear_failed",
					slog.String("op", op),
					slog.String("err", cerr.Error()),
				)
			}

			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}

		pair := stale.WithAccess(out.Access, out.Refresh)

		applied, err := c.session.ApplyRefresh(ctx, epoch, pair)
		if err != nil {
			// В памяти пара уже обновлена; сбой носителя не роняет запрос.
			lg.Warn("session_persist_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}

		if !applied {
			// Logout выиграл гонку: очистка окончательна, свежую пару
			// не воскрешаем.
			lg.Debug("token_refresh_discarded", slog.String("op", op))
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}

		c.metrics.ObserveRefresh(metrics.RefreshOK)
		lg.Debug("token_refresh_ok", slog.String("op", op))

		return nil, nil
	})

	if err != nil {
		return err
	}

	if shared {
		lg.Debug("token_refresh_shared", slog.String("op", op))
	}

	return nil
}

// exchange — сырой POST /auth/token/refresh/ мимо конвейера:
// без bearer-заголовка и без собственного refresh-пути.
func (c *Client) exchange(ctx context.Context, refresh string, out *models.RefreshResponse) error {
	const op = "client/exchange"

	raw, err := json.Marshal(models.RefreshRequest{Refresh: refresh})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()

	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	c.metrics.ObserveRequest(http.MethodPost, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, apiError(resp.StatusCode, body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	if out.Access == "" {
		return fmt.Errorf("%s: empty access token in refresh response", op)
	}

	return nil
}
