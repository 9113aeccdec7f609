package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

func TestCheckAvailability_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/widget" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"item":"widget","stock":7}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)

	stock, err := client.CheckAvailability(context.Background(), "widget")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock != 7 {
		t.Errorf("expected stock 7, got %d", stock)
	}
}

func TestCheckAvailability_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)

	_, err := client.CheckAvailability(context.Background(), "gizmo")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCheckAvailability_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)

	_, err := client.CheckAvailability(context.Background(), "widget")
	if err == nil {
		t.Fatal("expected error for 5xx response")
	}
	if errors.Is(err, domain.ErrItemNotFound) {
		t.Error("server error misclassified as not-found")
	}
}

func TestCheckAvailability_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := client.CheckAvailability(context.Background(), "widget")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestCheckAvailability_Unreachable(t *testing.T) {
	// Reserved port, nothing listening.
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.CheckAvailability(context.Background(), "widget")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if errors.Is(err, domain.ErrItemNotFound) {
		t.Error("transport failure misclassified as not-found")
	}
}
