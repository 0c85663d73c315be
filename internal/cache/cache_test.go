package cache

import (
	"testing"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

func newTestCache(t *testing.T, size int) *Events {
	t.Helper()
	c, err := New(size)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

var week = dateutil.WeekRangeOf(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

func TestNewKey_Canonical(t *testing.T) {
	a := NewKey(" alice ", week, "")
	b := NewKey("alice", dateutil.WeekRangeOf(week.End), " ")
	if a != b {
		t.Fatalf("keys differ: %v vs %v", a, b)
	}
	if a.Dimension != listening.AllArtists {
		t.Errorf("Dimension = %q, want %q", a.Dimension, listening.AllArtists)
	}
	if a.String() != "alice|2025-01-13|*" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestEvents_GetPut(t *testing.T) {
	c := newTestCache(t, 4)
	key := NewKey("alice", week, "a1")

	if _, ok := c.Get(key); ok {
		t.Fatal("Get() hit on empty cache")
	}

	events := []listening.Event{{Date: week.Start, DurationMs: 1000, ArtistID: "a1"}}
	c.Put(key, events)
	got, ok := c.Get(key)
	if !ok || len(got) != 1 {
		t.Fatalf("Get() = %v, %v", got, ok)
	}

	empty := NewKey("alice", week.Previous(), "")
	c.Put(empty, nil)
	got, ok = c.Get(empty)
	if !ok || got == nil || len(got) != 0 {
		t.Errorf("empty week should be a non-nil hit, got %v, %v", got, ok)
	}
}

func TestEvents_BoundedSize(t *testing.T) {
	c := newTestCache(t, 2)
	k1 := NewKey("alice", week, "")
	k2 := NewKey("alice", week.Previous(), "")
	k3 := NewKey("alice", week.Previous().Previous(), "")

	c.Put(k1, nil)
	c.Put(k2, nil)
	c.Get(k1) // k2 becomes least recently used
	c.Put(k3, nil)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(k2); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get(k1); !ok {
		t.Error("recently used entry should survive")
	}
}

func TestEvents_Invalidate(t *testing.T) {
	c := newTestCache(t, 16)
	c.Put(NewKey("alice", week, ""), nil)
	c.Put(NewKey("alice", week, "a1"), nil)
	c.Put(NewKey("alice", week.Previous(), ""), nil)
	c.Put(NewKey("bob", week, ""), nil)

	if n := c.InvalidateRange("alice", week); n != 2 {
		t.Errorf("InvalidateRange() removed %d, want 2", n)
	}
	if _, ok := c.Get(NewKey("alice", week.Previous(), "")); !ok {
		t.Error("other weeks must stay cached")
	}
	if _, ok := c.Get(NewKey("bob", week, "")); !ok {
		t.Error("other users must stay cached")
	}

	if n := c.InvalidateUser("alice"); n != 1 {
		t.Errorf("InvalidateUser() removed %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestEvents_InvalidateTrimsUserID(t *testing.T) {
	c := newTestCache(t, 16)
	c.Put(NewKey("alice", week, ""), nil)
	c.Put(NewKey("alice", week.Previous(), ""), nil)

	if n := c.InvalidateRange(" alice ", week); n != 1 {
		t.Errorf("InvalidateRange() removed %d, want 1", n)
	}
	if n := c.InvalidateUser("alice\t"); n != 1 {
		t.Errorf("InvalidateUser() removed %d, want 1", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestNew_DefaultSize(t *testing.T) {
	c := newTestCache(t, 0)
	for i := 0; i < DefaultSize+10; i++ {
		c.Put(NewKey("alice", dateutil.WeekRangeOf(week.Start.AddDate(0, 0, -7*i)), ""), nil)
	}
	if c.Len() != DefaultSize {
		t.Errorf("Len() = %d, want %d", c.Len(), DefaultSize)
	}
}
