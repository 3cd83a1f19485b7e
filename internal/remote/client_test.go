package remote

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := New().GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !out.OK {
		t.Fatal("decoded ok = false")
	}
}

func TestGetMapsStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusNotFound, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{http.StatusTooManyRequests, func(err error) bool { return errors.Is(err, ErrRateLimited) }},
		{http.StatusBadGateway, func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusBadGateway
		}},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := New().Get(context.Background(), srv.URL)
		srv.Close()
		if !tt.check(err) {
			t.Errorf("status %d: unexpected error %v", tt.status, err)
		}
	}
}

func TestGetRejectsOversizedBody(t *testing.T) {
	for _, tt := range []struct {
		size    int
		wantErr bool
	}{
		{maxBodySize, false},
		{maxBodySize + 1, true},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(bytes.Repeat([]byte("a"), tt.size))
		}))
		body, err := New().Get(context.Background(), srv.URL)
		srv.Close()
		if tt.wantErr {
			if !errors.Is(err, ErrTooLarge) {
				t.Errorf("size %d: err = %v, want ErrTooLarge", tt.size, err)
			}
			continue
		}
		if err != nil || len(body) != tt.size {
			t.Errorf("size %d: got %d bytes, err %v", tt.size, len(body), err)
		}
	}
}

func TestGetTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(WithTimeout(50*time.Millisecond)).Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestFill(t *testing.T) {
	got := Fill("https://x.test/{currency}.json?q={currency}", map[string]string{"currency": "usd"})
	if got != "https://x.test/usd.json?q=usd" {
		t.Fatalf("Fill = %q", got)
	}
	if Fill("plain", nil) != "plain" {
		t.Fatal("Fill with no vars changed template")
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("HTTPS://example.com/data.json") {
		t.Error("https URL not detected")
	}
	if IsURL("./data.json") {
		t.Error("file path detected as URL")
	}
}
