package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// RestFetcher implements Fetcher against a self-hosted candle REST API.
type RestFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRestFetcher creates a new fetcher with optional proxy support.
func NewRestFetcher(baseURL, apiKey, proxyURL string) *RestFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RestFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RestFetcher) Name() string { return "rest" }

// restCandle is the expected JSON bar shape from the candle API.
type restCandle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

func (f *RestFetcher) FetchMonthlyCandles(symbol string) ([]model.Candle, error) {
	endpoint := fmt.Sprintf("%s/api/v1/candles/monthly?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch candles: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []restCandle
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	candles := make([]model.Candle, len(raw))
	for i, rc := range raw {
		candles[i] = model.Candle{
			Time:  time.Unix(rc.Timestamp, 0).UTC(),
			Open:  rc.Open,
			High:  rc.High,
			Low:   rc.Low,
			Close: rc.Close,
		}
	}
	// Ensure chronological order
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

func (f *RestFetcher) FetchName(symbol string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/instruments?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return "N/A", nil
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "N/A", nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "N/A", nil
	}
	var result struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.Name == "" {
		return "N/A", nil
	}
	return result.Name, nil
}
