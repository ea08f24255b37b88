package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	xhttp "baratcx/pkg/http"
)

// Client signs and forwards requests to the Binance REST API. The secret key
// never leaves this package: callers pass credentials per call and receive
// either parsed records or the raw signed response.
type Client struct {
	mainnetURL string
	testnetURL string
	recvWindow time.Duration
	http       *xhttp.Client
	now        func() time.Time
}

// Option configures Client.
type Option func(*Client)

// WithClock overrides the timestamp source. Used by tests to produce
// reproducible signatures.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a new exchange client.
func New(mainnetURL, testnetURL string, recvWindow, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		mainnetURL: mainnetURL,
		testnetURL: testnetURL,
		recvWindow: recvWindow,
		http:       xhttp.NewClient(xhttp.WithTimeout(timeout)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ drepo.ExchangeAccount = (*Client)(nil)

// Verify performs a signed account call to check the credentials. A 401 or 403
// from the exchange maps to ErrUnauthenticated.
func (c *Client) Verify(ctx context.Context, creds *models.ExchangeCredentials) error {
	_, _, err := c.signedGet(ctx, creds, "/account", nil)
	return err
}

type exchangeOrder struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	Time          int64  `json:"time"`
	UpdateTime    int64  `json:"updateTime"`
}

// OpenOrders returns the account's open orders normalized to order records.
func (c *Client) OpenOrders(ctx context.Context, creds *models.ExchangeCredentials) ([]models.OrderRecord, error) {
	body, _, err := c.signedGet(ctx, creds, "/openOrders", nil)
	if err != nil {
		return nil, err
	}

	var raw []exchangeOrder
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &models.ParseError{Source: "exchange", Err: err}
	}

	orders := make([]models.OrderRecord, 0, len(raw))
	for _, o := range raw {
		price, _ := strconv.ParseFloat(o.Price, 64)
		qty, _ := strconv.ParseFloat(o.OrigQty, 64)
		orders = append(orders, models.OrderRecord{
			ID:        fmt.Sprintf("ORD-%d", o.OrderID),
			ClientID:  o.ClientOrderID,
			Symbol:    o.Symbol,
			Side:      models.OrderSide(o.Side),
			OrderType: o.Type,
			Quantity:  qty,
			Price:     price,
			Status:    models.OrderStatus(o.Status),
			CreatedAt: time.UnixMilli(o.Time).UTC(),
			UpdatedAt: time.UnixMilli(o.UpdateTime).UTC(),
		})
	}
	return orders, nil
}

// Raw signs and forwards an arbitrary read-only endpoint call, returning the
// raw JSON body and HTTP status.
func (c *Client) Raw(ctx context.Context, creds *models.ExchangeCredentials, endpoint string, params map[string]string) ([]byte, int, error) {
	return c.signedGet(ctx, creds, endpoint, params)
}

func (c *Client) signedGet(ctx context.Context, creds *models.ExchangeCredentials, endpoint string, params map[string]string) ([]byte, int, error) {
	if !creds.Configured() {
		return nil, 0, models.ErrNotConfigured
	}

	query := Sign(creds.SecretKey, params, c.now().UnixMilli(), c.recvWindow.Milliseconds())

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:   xhttp.MethodGet,
		URL:      c.baseURL(creds) + endpoint,
		RawQuery: query,
		Headers:  map[string]string{"X-MBX-APIKEY": creds.APIKey},
	}, &body)
	if err == nil {
		return body, http.StatusOK, nil
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		if se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden {
			return nil, se.Status, fmt.Errorf("%w: status %d", models.ErrUnauthenticated, se.Status)
		}
		return nil, se.Status, &models.UpstreamError{Source: "exchange", Status: se.Status}
	}
	return nil, 0, &models.NetworkError{Source: "exchange", Err: err}
}

func (c *Client) baseURL(creds *models.ExchangeCredentials) string {
	if creds.UseTestnet {
		return c.testnetURL
	}
	return c.mainnetURL
}

// Sign builds the canonical query string for a signed exchange request:
// caller params in sorted order, then recvWindow and timestamp, with the
// HMAC-SHA256 hex digest of that exact string appended as signature.
func Sign(secret string, params map[string]string, timestampMillis, recvWindowMillis int64) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set("recvWindow", strconv.FormatInt(recvWindowMillis, 10))
	values.Set("timestamp", strconv.FormatInt(timestampMillis, 10))

	canonical := values.Encode()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return canonical + "&signature=" + hex.EncodeToString(mac.Sum(nil))
}
