package cookiebot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:       baseURL,
		APIKey:        "test-api-key",
		DomainGroupID: "group-123",
		Domain:        "www.example.com",
	}
}

func TestNewClient(t *testing.T) {
	config := testConfig("https://consent.cookiebot.com")
	client := NewClient(config, nil)

	if client.baseURL != config.BaseURL {
		t.Errorf("Expected baseURL %s, got %s", config.BaseURL, client.baseURL)
	}
	if client.apiKey != config.APIKey {
		t.Errorf("Expected apiKey %s, got %s", config.APIKey, client.apiKey)
	}
	if client.httpClient == nil {
		t.Error("Expected default HTTP client, got nil")
	}
}

func TestStatsURL(t *testing.T) {
	client := NewClient(testConfig("https://consent.cookiebot.com"), nil)
	got := client.statsURL("20240101", "20240105")
	want := "https://consent.cookiebot.com/api/v1/test-api-key/json/domaingroup/group-123/domain/www.example.com/consent/stats?startdate=20240101&enddate=20240105"
	if got != want {
		t.Errorf("Expected URL %s, got %s", want, got)
	}
}

func TestFetchStats(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"consentstat": {"consentday": [{"Date": "20240101", "OptIns": 5}]}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), server.Client())

	payload, err := client.FetchStats(context.Background(), "20240101", "20240105")
	if err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}

	wantPath := "/api/v1/test-api-key/json/domaingroup/group-123/domain/www.example.com/consent/stats"
	if gotPath != wantPath {
		t.Errorf("Expected path %s, got %s", wantPath, gotPath)
	}
	if gotQuery != "startdate=20240101&enddate=20240105" {
		t.Errorf("Unexpected query: %s", gotQuery)
	}

	rows := ExtractRows(payload)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0]["Date"] != "20240101" {
		t.Errorf("Unexpected row: %v", rows[0])
	}
}

func TestFetchStatsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), server.Client())

	_, err := client.FetchStats(context.Background(), "20240101", "20240105")
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("Expected status code in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("Expected response body in error, got: %v", err)
	}
}

func TestFetchStatsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), server.Client())

	_, err := client.FetchStats(context.Background(), "20240101", "20240105")
	if err == nil {
		t.Fatal("Expected error for non-JSON body")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("Expected JSON error, got: %v", err)
	}
}

func TestFetchStatsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), &http.Client{Timeout: 20 * time.Millisecond})

	_, err := client.FetchStats(context.Background(), "20240101", "20240105")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	// The error names the method and target so retry logs are actionable.
	if !strings.Contains(err.Error(), "GET "+server.URL) {
		t.Errorf("Expected method and URL in error, got: %v", err)
	}
}

func TestFetchStatsEscapesDomain(t *testing.T) {
	var gotRawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.Domain = "shop.example.com/de"
	client := NewClient(config, server.Client())

	if _, err := client.FetchStats(context.Background(), "20240101", "20240105"); err != nil {
		t.Fatalf("FetchStats failed: %v", err)
	}
	if !strings.Contains(gotRawPath, "shop.example.com%2Fde") {
		t.Errorf("Expected escaped domain in path, got: %s", gotRawPath)
	}
}
