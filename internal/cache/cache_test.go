// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set("k", "value")
	got, ok := c.Get("k")
	if !ok || got != "value" {
		t.Errorf("Get = %v, %v", got, ok)
	}
}

func TestExpiration(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("k", "value")

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("evictions = %d, want 1 (lazy eviction on Get)", stats.Evictions)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate()

	if _, ok := c.Get("a"); ok {
		t.Error("entry a survived invalidation")
	}
	stats := c.GetStats()
	if stats.TotalKeys != 0 || stats.Evictions != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStatsCounters(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")

	c.Get("k")
	c.Get("k")
	c.Get("absent")

	stats := c.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", stats.Hits, stats.Misses)
	}
	if stats.TotalKeys != 1 {
		t.Errorf("totalKeys = %d, want 1", stats.TotalKeys)
	}
}

func TestGenerateKeyStable(t *testing.T) {
	type params struct {
		UserID string
		Year   int
	}

	a := GenerateKey("heatmap", params{UserID: "u1", Year: 2024})
	b := GenerateKey("heatmap", params{UserID: "u1", Year: 2024})
	if a != b {
		t.Errorf("keys for equal params differ: %q vs %q", a, b)
	}

	other := GenerateKey("heatmap", params{UserID: "u1", Year: 2023})
	if a == other {
		t.Error("keys for different params collide")
	}
	otherOp := GenerateKey("summary", params{UserID: "u1", Year: 2024})
	if a == otherOp {
		t.Error("keys for different operations collide")
	}
}
