package encyclopedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSummaryReturnsExtract(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"standard","title":"Free will","extract":"Free will is the capacity to choose."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	got, ok := c.Summary(context.Background(), "free will")
	if !ok || got != "Free will is the capacity to choose." {
		t.Fatalf("Summary = %q, %v", got, ok)
	}
	if path != "/page/summary/free_will" {
		t.Fatalf("path = %s", path)
	}
}

func TestSummaryNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, ok := New(srv.URL, time.Second).Summary(context.Background(), "nothing"); ok {
		t.Fatal("404 reported as found")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestSummaryRetriesServerErrorOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"type":"standard","extract":"Memory is the faculty of the mind."}`))
	}))
	defer srv.Close()

	got, ok := New(srv.URL, time.Second).Summary(context.Background(), "memory")
	if !ok || got == "" {
		t.Fatalf("Summary = %q, %v", got, ok)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestSummaryGivesUpAfterTwoAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, ok := New(srv.URL, time.Second).Summary(context.Background(), "time"); ok {
		t.Fatal("failure reported as found")
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestSummarySkipsEmptyAndDisambiguation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"disambiguation","extract":"Logic may refer to:"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if _, ok := c.Summary(context.Background(), "logic"); ok {
		t.Fatal("disambiguation page accepted")
	}
	if _, ok := c.Summary(context.Background(), "  "); ok {
		t.Fatal("blank title accepted")
	}
}
