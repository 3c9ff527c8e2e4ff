package newrelic

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendEvents(t *testing.T) {
	var gotPath, gotAPIKey, gotContentType, gotBody string
	var gotContentLength int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("Api-Key")
		gotContentType = r.Header.Get("Content-Type")
		gotContentLength = r.ContentLength
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:   server.URL,
		AccountID: "1234567",
		IngestKey: "test-ingest-key",
	}, server.Client())

	payload := []byte(`[{"eventType":"CookiebotConsentStats","optIns":5}]`)
	if err := client.SendEvents(context.Background(), payload); err != nil {
		t.Fatalf("SendEvents failed: %v", err)
	}

	if gotPath != "/v1/accounts/1234567/events" {
		t.Errorf("Unexpected path: %s", gotPath)
	}
	if gotAPIKey != "test-ingest-key" {
		t.Errorf("Unexpected Api-Key header: %s", gotAPIKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("Unexpected Content-Type: %s", gotContentType)
	}
	if gotContentLength != int64(len(payload)) {
		t.Errorf("Expected Content-Length %d, got %d", len(payload), gotContentLength)
	}
	if gotBody != string(payload) {
		t.Errorf("Body mismatch: %s", gotBody)
	}
}

func TestSendEventsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "invalid ingest key"}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:   server.URL,
		AccountID: "1234567",
		IngestKey: "bad-key",
	}, server.Client())

	err := client.SendEvents(context.Background(), []byte(`[]`))
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("Expected status code in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid ingest key") {
		t.Errorf("Expected response body in error, got: %v", err)
	}
}

func TestSendEventsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(Config{
		BaseURL:   server.URL,
		AccountID: "1234567",
		IngestKey: "key",
	}, nil)

	err := client.SendEvents(context.Background(), []byte(`[]`))
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if !strings.Contains(err.Error(), "POST "+server.URL) {
		t.Errorf("Expected method and URL in error, got: %v", err)
	}
}
