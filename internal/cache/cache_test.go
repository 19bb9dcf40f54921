// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("movie:603", "value1")
	value, exists := c.Get("movie:603")
	if !exists {
		t.Error("Expected movie:603 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	_, exists = c.Get("movie:604")
	if exists {
		t.Error("Expected movie:604 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(100 * time.Millisecond)

	c.Set("movie:603", "value1")

	_, exists := c.Get("movie:603")
	if !exists {
		t.Error("Expected movie:603 to exist immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	_, exists = c.Get("movie:603")
	if exists {
		t.Error("Expected movie:603 to be expired")
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := New(1 * time.Minute)

	c.SetWithTTL("short-lived", "v", 50*time.Millisecond)
	if _, exists := c.Get("short-lived"); !exists {
		t.Error("Expected short-lived to exist before TTL")
	}

	time.Sleep(80 * time.Millisecond)
	if _, exists := c.Get("short-lived"); exists {
		t.Error("Expected short-lived to be expired after custom TTL")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("movie:603", "value1")
	c.Delete("movie:603")

	if _, exists := c.Get("movie:603"); exists {
		t.Error("Expected movie:603 to be deleted")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(1 * time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("movie:%d", i), i)
	}

	c.Clear()

	for i := 0; i < 3; i++ {
		if _, exists := c.Get(fmt.Sprintf("movie:%d", i)); exists {
			t.Errorf("Expected movie:%d to be cleared", i)
		}
	}

	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("Expected 0 keys after clear, got %d", stats.TotalKeys)
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1 * time.Minute)

	c.Set("movie:603", "v")
	c.Get("movie:603") // hit
	c.Get("missing")   // miss

	stats := c.GetStats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if rate := c.HitRate(); rate != 50.0 {
		t.Errorf("Expected 50%% hit rate, got %f", rate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(1 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("movie:%d", n%10)
			c.Set(key, n)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.TotalKeys != 10 {
		t.Errorf("Expected 10 keys, got %d", stats.TotalKeys)
	}
}

func TestCacheCleanup(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("movie:603", "v")
	time.Sleep(30 * time.Millisecond)

	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("Expected 0 keys after cleanup, got %d", stats.TotalKeys)
	}
	if stats.Evictions == 0 {
		t.Error("Expected at least one eviction")
	}
}
