// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avandyck/retrospin/internal/config"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(&config.CatalogConfig{
		BaseURL:     serverURL,
		Timeout:     2 * time.Second,
		Concurrency: 10,
	}, StaticTokenSource("test-token"))
}

func TestGetTrackMetadata(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/tracks/abc123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"albumArt":"https://img.example/abc.jpg","albumName":"The Album"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	meta, err := client.GetTrackMetadata(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetTrackMetadata failed: %v", err)
	}

	if meta.AlbumArt != "https://img.example/abc.jpg" || meta.AlbumName != "The Album" {
		t.Errorf("meta = %+v", meta)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
}

func TestSearchArtist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Some Artist" {
			t.Errorf("query q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"artists":[{"id":"a1","genres":["shoegaze","dream pop"]}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	info, err := client.SearchArtist(context.Background(), "Some Artist")
	if err != nil {
		t.Fatalf("SearchArtist failed: %v", err)
	}
	if info.ID != "a1" || len(info.Genres) != 2 {
		t.Errorf("info = %+v", info)
	}
}

func TestSearchArtistNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"artists":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.SearchArtist(context.Background(), "Unknown"); err == nil {
		t.Fatal("expected error for empty search result")
	}
}

func TestRateLimitedRequestRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"albumArt":"art","albumName":"name"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	meta, err := client.GetTrackMetadata(context.Background(), "abc")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if meta.AlbumName != "name" {
		t.Errorf("meta = %+v", meta)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
}

func TestRateLimitPersistsGivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GetTrackMetadata(context.Background(), "abc")
	if !errors.Is(err, ErrLookupUnavailable) {
		t.Fatalf("expected ErrLookupUnavailable, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want exactly 2 (one retry)", got)
	}
}

func TestMissingTokenIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be reached without a token")
	}))
	defer server.Close()

	client := NewClient(&config.CatalogConfig{BaseURL: server.URL, Concurrency: 10}, StaticTokenSource(""))
	_, err := client.GetTrackMetadata(context.Background(), "abc")
	if !errors.Is(err, ErrLookupUnavailable) {
		t.Fatalf("expected ErrLookupUnavailable, got %v", err)
	}
}

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	for i := 0; i < 5; i++ {
		if _, err := client.GetTrackMetadata(context.Background(), "abc"); err == nil {
			t.Fatal("expected failure")
		}
	}

	_, err := client.GetTrackMetadata(context.Background(), "abc")
	if !errors.Is(err, ErrLookupUnavailable) {
		t.Fatalf("expected ErrLookupUnavailable once the circuit opened, got %v", err)
	}
}

func TestRetryAfterParsing(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", time.Second},
		{"3", 3 * time.Second},
		{"0", 0},
		{"-1", time.Second},
		{"soon", time.Second},
	}
	for _, tt := range tests {
		if got := retryAfter(tt.header); got != tt.want {
			t.Errorf("retryAfter(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
