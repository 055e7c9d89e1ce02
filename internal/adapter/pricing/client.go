package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veresko/boxroom/internal/domain/model"
)

// ErrPriceNotAvailable indicates the pricing service has no rate for the
// requested category.
var ErrPriceNotAvailable = errors.New("price not available")

// TooManyRequestsError represents rate limiting signal from the pricing
// service.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes operations to query the pricing service.
type Client interface {
	Quote(ctx context.Context, categoryID int64, period model.DateRange) (*model.PriceQuote, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors JSON payload from the pricing service.
type response struct {
	CategoryID int64  `json:"category_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

// NewHTTPClient creates HTTP pricing client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse pricing url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("pricing url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Quote asks the pricing service for the rate of a category over the
// requested rental period.
func (c *HTTPClient) Quote(ctx context.Context, categoryID int64, period model.DateRange) (*model.PriceQuote, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/prices/", strconv.FormatInt(categoryID, 10))

	query := endpoint.Query()
	query.Set("start", period.Start.Format(time.DateOnly))
	if d, ok := period.End.Date(); ok {
		query.Set("end", d.Format(time.DateOnly))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(data.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		return &model.PriceQuote{CategoryID: data.CategoryID, Amount: amount, Currency: data.Currency}, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, ErrPriceNotAvailable
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("pricing request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("pricing error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
