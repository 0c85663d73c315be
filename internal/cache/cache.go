// Package cache keeps recently fetched listening events per week.
package cache

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// DefaultSize is the number of entries kept when no size is configured.
const DefaultSize = 64

// Key identifies one cached fetch.
type Key struct {
	UserID    string
	Week      string // Monday, YYYY-MM-DD
	Dimension string // artist ID or listening.AllArtists
}

// NewKey builds a canonical key. An empty artistID means all artists.
func NewKey(userID string, rng dateutil.WeekRange, artistID string) Key {
	return Key{
		UserID:    strings.TrimSpace(userID),
		Week:      rng.Start.Format(dateutil.DateLayout),
		Dimension: listening.Dimension(strings.TrimSpace(artistID)),
	}
}

func (k Key) String() string {
	return k.UserID + "|" + k.Week + "|" + k.Dimension
}

// Events is a bounded LRU of event slices. Cached slices are shared and
// must not be modified by callers.
type Events struct {
	lru *lru.Cache[Key, []listening.Event]
}

// New creates a cache holding at most size entries.
func New(size int) (*Events, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[Key, []listening.Event](size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}
	return &Events{lru: c}, nil
}

// Get returns the cached events for key.
func (c *Events) Get(key Key) ([]listening.Event, bool) {
	return c.lru.Get(key)
}

// Put stores events for key. A nil slice is stored as empty so an empty
// week is still a cache hit.
func (c *Events) Put(key Key, events []listening.Event) {
	if events == nil {
		events = []listening.Event{}
	}
	c.lru.Add(key, events)
}

// InvalidateRange drops every dimension cached for the user's week.
func (c *Events) InvalidateRange(userID string, rng dateutil.WeekRange) int {
	userID = strings.TrimSpace(userID)
	week := rng.Start.Format(dateutil.DateLayout)
	return c.removeWhere(func(k Key) bool {
		return k.UserID == userID && k.Week == week
	})
}

// InvalidateUser drops every entry for the user.
func (c *Events) InvalidateUser(userID string) int {
	userID = strings.TrimSpace(userID)
	return c.removeWhere(func(k Key) bool {
		return k.UserID == userID
	})
}

func (c *Events) removeWhere(match func(Key) bool) int {
	removed := 0
	for _, k := range c.lru.Keys() {
		if match(k) && c.lru.Remove(k) {
			removed++
		}
	}
	return removed
}

// Purge empties the cache.
func (c *Events) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached entries.
func (c *Events) Len() int {
	return c.lru.Len()
}
