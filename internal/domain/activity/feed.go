// Package activity keeps a small in-memory feed of recent user actions
// for the dashboard. The feed is intentionally not persisted; the durable
// audit trail lives in storage.
package activity

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the feed size.
const DefaultCapacity = 100

// Entry is one feed item.
type Entry struct {
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed is a fixed-capacity ring buffer of recent actions, newest first.
// Safe for concurrent use.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewFeed creates a feed with the given capacity (DefaultCapacity if <= 0).
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{entries: make([]Entry, capacity)}
}

// Record appends an entry, evicting the oldest once the feed is full.
func (f *Feed) Record(user, action, entity, label string) {
	f.RecordAt(user, action, entity, label, time.Now().UTC())
}

// RecordAt appends an entry with an explicit timestamp.
func (f *Feed) RecordAt(user, action, entity, label string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = Entry{
		User:      user,
		Action:    action,
		Entity:    entity,
		Label:     label,
		Timestamp: at,
	}
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (f *Feed) Recent(limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	size := f.size()
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.entries)) % len(f.entries)
		out = append(out, f.entries[idx])
	}
	return out
}

// Len returns the number of recorded entries, capped at capacity.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.size()
}

func (f *Feed) size() int {
	if f.full {
		return len(f.entries)
	}
	return f.next
}
