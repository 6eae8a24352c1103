package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const coindeskJSON = `{"time":{"updated":"Aug 11, 2021 22:21:00 UTC","updatedISO":"2021-08-11T22:21:00+00:00","updateduk":"Aug 11, 2021 at 23:21 BST"},"disclaimer":"This data was produced from the CoinDesk Bitcoin Price Index (USD). Non-USD currency data converted using hourly conversion rate from openexchangerates.org","chartName":"Bitcoin","bpi":{"USD":{"code":"USD","symbol":"&#36;","rate":"45,983.3647","description":"United States Dollar","rate_float":45983.3647},"GBP":{"code":"GBP","symbol":"&pound;","rate":"33,151.4768","description":"British Pound Sterling","rate_float":33151.4768},"EUR":{"code":"EUR","symbol":"&euro;","rate":"39,163.7558","description":"Euro","rate_float":39163.7558}}}`

func TestFetchCurrentPrice(t *testing.T) {
	var gotAccept, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(coindeskJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(5*time.Second), WithUserAgent("coin-ticker/test"))

	cp, err := client.FetchCurrentPrice(context.Background())
	if err != nil {
		t.Fatalf("FetchCurrentPrice failed: %v", err)
	}

	if cp.Time.Updated != "Aug 11, 2021 22:21:00 UTC" {
		t.Errorf("Time.Updated = %q, want %q", cp.Time.Updated, "Aug 11, 2021 22:21:00 UTC")
	}
	if got := cp.BPI["USD"].Rate; got != "45,983.3647" {
		t.Errorf("BPI[USD].Rate = %q, want %q", got, "45,983.3647")
	}
	if len(cp.BPI) != 3 {
		t.Errorf("len(BPI) = %d, want 3", len(cp.BPI))
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if gotUA != "coin-ticker/test" {
		t.Errorf("User-Agent = %q, want coin-ticker/test", gotUA)
	}
}

func TestFetchCurrentPrice_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer server.Close()

	var calls int
	client := NewClient(server.URL, WithHTTPClient(&http.Client{
		Transport: countingTransport(&calls, http.DefaultTransport),
	}))

	_, err := client.FetchCurrentPrice(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusServiceUnavailable)
	}
	if string(apiErr.Body) != "down" {
		t.Errorf("Body = %q, want %q", apiErr.Body, "down")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", calls)
	}
}

func TestFetchCurrentPrice_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"time": "not an object"`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.FetchCurrentPrice(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unmarshal current price") {
		t.Errorf("error = %q, want unmarshal error", err)
	}
}

func TestFetchCurrentPrice_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.FetchCurrentPrice(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func countingTransport(n *int, next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		*n++
		return next.RoundTrip(r)
	})
}
