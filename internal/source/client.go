// Package source предоставляет клиент внешнего API заказов.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmeshcher/order-summary/internal/model"
)

// DefaultTimeout задаёт таймаут HTTP-клиента по умолчанию.
const DefaultTimeout = 10 * time.Second

// ErrNotFound возвращается, если внешний API не нашёл запрошенный заказ.
var ErrNotFound = errors.New("order not found in remote source")

// FetchError описывает ошибку взаимодействия с внешним API.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote fetch %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client инкапсулирует HTTP-взаимодействие с внешним API заказов.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к внешнему API по указанному адресу.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchPage запрашивает страницу заказов.
func (c *Client) FetchPage(ctx context.Context, page, maxPerPage string) (*model.RawRecordPage, error) {
	const op = "page"

	q := url.Values{}
	q.Set("page", page)
	q.Set("maxPerPage", maxPerPage)

	var result model.RawRecordPage
	if err := c.get(ctx, op, "/orders?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchByID запрашивает один заказ по его внешнему идентификатору (uuid).
func (c *Client) FetchByID(ctx context.Context, id string) (*model.RawRecord, error) {
	const op = "order"

	var result model.RawRecord
	if err := c.get(ctx, op, "/orders/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, op, path string, dst any) error {
	if c == nil || c.baseURL == "" {
		return &FetchError{Op: op, Err: errors.New("orders api client not configured")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: ErrNotFound}
	}

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: errors.New("unexpected status")}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
