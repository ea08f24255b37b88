package coincap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"baratcx/internal/domain/models"
)

func TestTopAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"id":"bitcoin","name":"Bitcoin","symbol":"BTC","priceUsd":"65000.5","marketCapUsd":"1280000000000","volumeUsd24Hr":"30000000000","changePercent24Hr":"-2.35"},
			{"id":"ethereum","name":"Ethereum","symbol":"ETH","priceUsd":"3200","marketCapUsd":"-5","volumeUsd24Hr":"garbage","changePercent24Hr":""}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 5*time.Second)
	assets, err := c.TopAssets(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopAssets: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}

	btc := assets[0]
	if btc.Symbol != "BTC" || btc.PriceUSD != 65000.5 {
		t.Fatalf("unexpected first asset: %+v", btc)
	}
	if btc.ChangePercent24h != -2.35 {
		t.Fatalf("change percent must keep its sign, got %f", btc.ChangePercent24h)
	}

	eth := assets[1]
	if eth.MarketCapUSD != 0 {
		t.Fatalf("negative cap must clamp to zero, got %f", eth.MarketCapUSD)
	}
	if eth.VolumeUSD24h != 0 {
		t.Fatalf("unparseable volume must default to zero, got %f", eth.VolumeUSD24h)
	}
}

func TestGlobalSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{
			"total_market_cap":{"usd":2100000000000},
			"total_volume":{"usd":84200000000},
			"market_cap_percentage":{"btc":42.1,"eth":18.2},
			"market_cap_change_percentage_24h_usd":-1.7
		}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 5*time.Second)
	snap, err := c.GlobalSnapshot(context.Background())
	if err != nil {
		t.Fatalf("GlobalSnapshot: %v", err)
	}
	if snap.TotalMarketCapUSD != 2.1e12 {
		t.Fatalf("market cap = %f", snap.TotalMarketCapUSD)
	}
	if snap.DominancePercent != 42.1 {
		t.Fatalf("dominance = %f", snap.DominancePercent)
	}
	if snap.CapChange24h != -1.7 {
		t.Fatalf("cap change = %f", snap.CapChange24h)
	}
	if snap.FetchedAt.IsZero() {
		t.Fatal("FetchedAt not set")
	}
}

func TestUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 5*time.Second)
	_, err := c.TopAssets(context.Background(), 5)

	var ue *models.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusTooManyRequests {
		t.Fatalf("status = %d", ue.Status)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, srv.URL, time.Second)
	_, err := c.GlobalSnapshot(context.Background())

	var ne *models.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": not json`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, 5*time.Second)
	_, err := c.TopAssets(context.Background(), 5)

	var pe *models.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
