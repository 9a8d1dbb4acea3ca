package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/waxipay/go-waxipay/internal/pkg/log"
)

// Ограничение на размер читаемого тела ответа.
const maxBodyBytes = 4 << 20

// Request — описание исходящего вызова. Явная структура вместо скрытых
// флагов на транспортных объектах: всё, что нужно для повтора, лежит здесь.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// attempt — состояние одного исходного вызова в конвейере:
// сериализованное тело (переживает повтор) и флаг «уже повторён».
// Флаг индивидуален для каждого исходного запроса и гарантирует не более
// одного refresh-повтора на вызов — второй 401 проходит наружу как есть.
type attempt struct {
	raw     []byte
	retried bool
}

// Get — GET c query-параметрами.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post — POST с JSON-телом.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Do выполняет запрос через конвейер: bearer из сессии, один возможный
// refresh-повтор на 401, декодирование JSON-ответа в out (если out != nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	const op = "client/Do"

	lg := log.From(ctx)

	var att attempt

	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}

		att.raw = raw
	}

	for {
		// Токены читаются из сессии на каждой попытке: повтор после
		// refresh подхватывает новый access автоматически.
		tokens, epoch, haveTokens := c.session.Tokens()

		httpReq, err := c.build(ctx, req, att.raw, tokens.Access, haveTokens)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			// Таймаут и сетевые сбои — не аутентификационные ошибки,
			// refresh-путь для них закрыт.
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

		c.metrics.ObserveRequest(req.Method, resp.StatusCode)

		if resp.StatusCode == http.StatusUnauthorized && haveTokens && !att.retried {
			att.retried = true

			if err := c.refreshAccess(ctx, tokens, epoch); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			lg.Debug("request_replay",
				slog.String("op", op),
				slog.String("method", req.Method),
				slog.String("path", req.Path),
			)
			c.metrics.ObserveReplay()

			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%s: %w: %w", op, ErrUnauthenticated, apiError(resp.StatusCode, body))
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("%s: %w", op, apiError(resp.StatusCode, body))
		}

		if out != nil && len(body) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%s: decode response: %w", op, err)
			}
		}

		return nil
	}
}

// build собирает *http.Request очередной попытки.
func (c *Client) build(ctx context.Context, req Request, raw []byte, access string, haveTokens bool) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if raw != nil {
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}

	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	if raw != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpReq.Header.Set("Accept", "application/json")

	if httpReq.Header.Get("X-Request-Id") == "" {
		httpReq.Header.Set("X-Request-Id", uuid.NewString())
	}

	// Без активной сессии запрос уходит без заголовка авторизации —
	// пригоден ли он бэкенду, решает бэкенд.
	if haveTokens {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}

	return httpReq, nil
}

// isTimeout распознаёт таймаут среди транспортных ошибок.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
