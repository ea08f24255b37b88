package coincap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	xhttp "baratcx/pkg/http"
)

// Client implements a MarketDataSource backed by the CoinCap asset API and
// the CoinGecko global endpoint. Both are public, unauthenticated GETs.
type Client struct {
	assetsURL string
	globalURL string
	http      *xhttp.Client
}

// New creates a new market data client.
func New(assetsURL, globalURL string, timeout time.Duration) drepo.MarketDataSource {
	return &Client{
		assetsURL: assetsURL,
		globalURL: globalURL,
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Upstream payloads. CoinCap serializes numbers as strings; every field is
// optional as far as we are concerned and defaults to zero at the boundary.
type ccAsset struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	PriceUSD         string `json:"priceUsd"`
	MarketCapUSD     string `json:"marketCapUsd"`
	VolumeUSD24Hr    string `json:"volumeUsd24Hr"`
	ChangePercent24H string `json:"changePercent24Hr"`
}

type ccAssetsResponse struct {
	Data []ccAsset `json:"data"`
}

type cgGlobalResponse struct {
	Data struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		TotalVolume         map[string]float64 `json:"total_volume"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		CapChange24hUSD     float64            `json:"market_cap_change_percentage_24h_usd"`
	} `json:"data"`
}

// GlobalSnapshot fetches global market aggregates.
func (c *Client) GlobalSnapshot(ctx context.Context) (*models.MarketSnapshot, error) {
	body, err := c.get(ctx, c.globalURL, nil)
	if err != nil {
		return nil, err
	}

	var resp cgGlobalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.ParseError{Source: "coingecko", Err: err}
	}

	return &models.MarketSnapshot{
		TotalMarketCapUSD: clamp(resp.Data.TotalMarketCap["usd"]),
		TotalVolumeUSD:    clamp(resp.Data.TotalVolume["usd"]),
		DominancePercent:  clamp(resp.Data.MarketCapPercentage["btc"]),
		CapChange24h:      sanitize(resp.Data.CapChange24hUSD),
		FetchedAt:         time.Now().UTC(),
	}, nil
}

// TopAssets fetches the top assets by market cap, in source order.
func (c *Client) TopAssets(ctx context.Context, limit int) ([]models.Asset, error) {
	body, err := c.get(ctx, c.assetsURL, map[string][]string{
		"limit": {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	var resp ccAssetsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.ParseError{Source: "coincap", Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &models.ParseError{Source: "coincap", Err: fmt.Errorf("empty asset list")}
	}

	assets := make([]models.Asset, 0, len(resp.Data))
	for _, a := range resp.Data {
		assets = append(assets, models.Asset{
			ID:               a.ID,
			Name:             a.Name,
			Symbol:           a.Symbol,
			PriceUSD:         clamp(parseFloat(a.PriceUSD)),
			MarketCapUSD:     clamp(parseFloat(a.MarketCapUSD)),
			VolumeUSD24h:     clamp(parseFloat(a.VolumeUSD24Hr)),
			ChangePercent24h: sanitize(parseFloat(a.ChangePercent24H)),
		})
	}
	return assets, nil
}

func (c *Client) get(ctx context.Context, url string, params map[string][]string) ([]byte, error) {
	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: params,
	}, &body)
	if err == nil {
		return body, nil
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return nil, &models.UpstreamError{Source: "market", Status: se.Status}
	}
	return nil, &models.NetworkError{Source: "market", Err: err}
}

// parseFloat tolerates the API omitting or garbling numeric fields.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// clamp forces a non-negative finite value.
func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sanitize forces a finite value but allows negatives (change percentages).
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
