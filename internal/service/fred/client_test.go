package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchParsesObservations(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series/observations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = map[string]string{
			"series_id":  r.URL.Query().Get("series_id"),
			"api_key":    r.URL.Query().Get("api_key"),
			"file_type":  r.URL.Query().Get("file_type"),
			"sort_order": r.URL.Query().Get("sort_order"),
			"start":      r.URL.Query().Get("observation_start"),
			"end":        r.URL.Query().Get("observation_end"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations":[
			{"date":"2024-01-01","value":"5.33"},
			{"date":"2024-01-02","value":"."},
			{"date":"2024-01-03","value":""},
			{"date":"2024-01-04","value":"5.40"},
			{"date":"not-a-date","value":"5.41"}
		]}`))
	}))
	defer srv.Close()

	src := New("test-key", srv.URL, time.Second)
	obs, err := src.Fetch(context.Background(), "DFF", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotQuery["series_id"] != "DFF" || gotQuery["api_key"] != "test-key" {
		t.Fatalf("unexpected query %v", gotQuery)
	}
	if gotQuery["file_type"] != "json" || gotQuery["sort_order"] != "asc" {
		t.Fatalf("unexpected format params %v", gotQuery)
	}
	if gotQuery["start"] != "2024-01-01" || gotQuery["end"] != "2024-01-31" {
		t.Fatalf("unexpected window params %v", gotQuery)
	}

	if len(obs) != 2 {
		t.Fatalf("expected 2 observations after dropping sentinels, got %d", len(obs))
	}
	if obs[0].Date != "2024-01-01" || obs[0].Value != 5.33 {
		t.Fatalf("unexpected first observation %+v", obs[0])
	}
	if obs[1].Date != "2024-01-04" || obs[1].Value != 5.40 {
		t.Fatalf("unexpected second observation %+v", obs[1])
	}
}

func TestFetchRejectsBadInput(t *testing.T) {
	src := New("k", "http://localhost:0", time.Second)

	if _, err := src.Fetch(context.Background(), "", "", ""); err == nil {
		t.Fatalf("expected error for empty series id")
	}
	if _, err := src.Fetch(context.Background(), "DFF", "01/02/2024", ""); err == nil {
		t.Fatalf("expected error for malformed start date")
	}
	if _, err := src.Fetch(context.Background(), "DFF", "", "2024-13-40"); err == nil {
		t.Fatalf("expected error for impossible end date")
	}
}

func TestFetchSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad api key", http.StatusForbidden)
	}))
	defer srv.Close()

	src := New("wrong", srv.URL, time.Second)
	if _, err := src.Fetch(context.Background(), "DFF", "", ""); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}
