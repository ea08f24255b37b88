package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"baratcx/internal/domain/models"
)

const testSecret = "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"

func testCreds(testnet bool) *models.ExchangeCredentials {
	return &models.ExchangeCredentials{
		APIKey:     "test-api-key",
		SecretKey:  testSecret,
		UseTestnet: testnet,
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestSignCoversTransmittedQuery(t *testing.T) {
	query := Sign(testSecret, map[string]string{"symbol": "BTCUSDT"}, 1499827319559, 5000)

	idx := strings.LastIndex(query, "&signature=")
	if idx < 0 {
		t.Fatalf("no signature in %q", query)
	}
	canonical, sig := query[:idx], query[idx+len("&signature="):]

	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(canonical))
	if want := hex.EncodeToString(mac.Sum(nil)); sig != want {
		t.Fatalf("signature %s does not cover canonical string, want %s", sig, want)
	}

	for _, part := range []string{"symbol=BTCUSDT", "timestamp=1499827319559", "recvWindow=5000"} {
		if !strings.Contains(canonical, part) {
			t.Fatalf("canonical string %q missing %q", canonical, part)
		}
	}
}

func TestSignDeterministic(t *testing.T) {
	params := map[string]string{"symbol": "ETHUSDT", "limit": "10"}
	a := Sign(testSecret, params, 1700000000000, 5000)
	b := Sign(testSecret, params, 1700000000000, 5000)
	if a != b {
		t.Fatalf("same inputs must sign identically:\n%s\n%s", a, b)
	}
}

func TestVerifySendsSignedRequest(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-MBX-APIKEY")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"accountType":"SPOT"}`))
	}))
	defer srv.Close()

	c := New("http://mainnet.invalid", srv.URL, 5*time.Second, 5*time.Second, WithClock(fixedClock()))
	if err := c.Verify(context.Background(), testCreds(true)); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if gotPath != "/account" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "test-api-key" {
		t.Fatalf("api key header = %q", gotKey)
	}

	// The server must be able to verify the signature against the exact query
	// it received.
	idx := strings.LastIndex(gotQuery, "&signature=")
	if idx < 0 {
		t.Fatalf("unsigned query %q", gotQuery)
	}
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(gotQuery[:idx]))
	if want := hex.EncodeToString(mac.Sum(nil)); gotQuery[idx+len("&signature="):] != want {
		t.Fatalf("transmitted signature does not match canonical query")
	}
}

func TestOpenOrdersNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openOrders" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[{
			"symbol":"BTCUSDT","orderId":12345,"clientOrderId":"web_abc",
			"price":"64000.50","origQty":"0.25","status":"PARTIALLY_FILLED",
			"type":"LIMIT","side":"BUY","time":1717243200000,"updateTime":1717243260000
		}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 5*time.Second, 5*time.Second, WithClock(fixedClock()))
	orders, err := c.OpenOrders(context.Background(), testCreds(false))
	if err != nil {
		t.Fatalf("OpenOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	o := orders[0]
	if o.ID != "ORD-12345" || o.Symbol != "BTCUSDT" {
		t.Fatalf("unexpected order identity: %+v", o)
	}
	if o.Price != 64000.50 || o.Quantity != 0.25 {
		t.Fatalf("numeric fields not parsed: %+v", o)
	}
	if o.Status != models.StatusPartiallyFilled || o.Side != models.SideBuy {
		t.Fatalf("enum fields not mapped: %+v", o)
	}
	if !o.UpdatedAt.After(o.CreatedAt) {
		t.Fatalf("timestamps not converted: %+v", o)
	}
}

func TestNotConfigured(t *testing.T) {
	c := New("http://mainnet.invalid", "http://testnet.invalid", 5*time.Second, time.Second)
	err := c.Verify(context.Background(), &models.ExchangeCredentials{})
	if !errors.Is(err, models.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUnauthenticatedOnRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-2015,"msg":"Invalid API-key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 5*time.Second, 5*time.Second)
	err := c.Verify(context.Background(), testCreds(false))
	if !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUpstreamErrorOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 5*time.Second, 5*time.Second)
	_, status, err := c.Raw(context.Background(), testCreds(false), "/ticker/price", nil)

	var ue *models.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if status != http.StatusServiceUnavailable || ue.Status != status {
		t.Fatalf("status = %d, ue.Status = %d", status, ue.Status)
	}
}

func TestTestnetRouting(t *testing.T) {
	mainnetHit, testnetHit := false, false
	mainnet := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mainnetHit = true
		w.Write([]byte(`{}`))
	}))
	defer mainnet.Close()
	testnet := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testnetHit = true
		w.Write([]byte(`{}`))
	}))
	defer testnet.Close()

	c := New(mainnet.URL, testnet.URL, 5*time.Second, 5*time.Second)
	if err := c.Verify(context.Background(), testCreds(true)); err != nil {
		t.Fatalf("Verify testnet: %v", err)
	}
	if !testnetHit || mainnetHit {
		t.Fatalf("testnet credentials must route to testnet (testnet=%v mainnet=%v)", testnetHit, mainnetHit)
	}
}
