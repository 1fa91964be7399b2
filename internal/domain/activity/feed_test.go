package activity

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_NewestFirst(t *testing.T) {
	feed := NewFeed(10)
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	feed.RecordAt("amine", "create", "Patient", "El Amrani", base)
	feed.RecordAt("amine", "update", "Facture", "FAC-2026-00001", base.Add(time.Minute))
	feed.RecordAt("sara", "delete", "RendezVous", "RDV-2026-00003", base.Add(2*time.Minute))

	entries := feed.Recent(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "delete", entries[0].Action)
	assert.Equal(t, "update", entries[1].Action)
	assert.Equal(t, "create", entries[2].Action)
}

func TestFeed_EvictsOldestAtCapacity(t *testing.T) {
	feed := NewFeed(5)

	for i := 0; i < 8; i++ {
		feed.Record("amine", "create", "Patient", fmt.Sprintf("p%d", i))
	}

	assert.Equal(t, 5, feed.Len())
	entries := feed.Recent(0)
	require.Len(t, entries, 5)
	assert.Equal(t, "p7", entries[0].Label)
	assert.Equal(t, "p3", entries[4].Label)
}

func TestFeed_RecentLimit(t *testing.T) {
	feed := NewFeed(10)
	for i := 0; i < 6; i++ {
		feed.Record("amine", "create", "Patient", fmt.Sprintf("p%d", i))
	}

	entries := feed.Recent(3)
	require.Len(t, entries, 3)
	assert.Equal(t, "p5", entries[0].Label)

	assert.Len(t, feed.Recent(100), 6)
}

func TestFeed_Empty(t *testing.T) {
	feed := NewFeed(0)
	assert.Equal(t, 0, feed.Len())
	assert.Empty(t, feed.Recent(10))
}

func TestFeed_ConcurrentWrites(t *testing.T) {
	feed := NewFeed(DefaultCapacity)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				feed.Record("user", "create", "Patient", fmt.Sprintf("w%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, DefaultCapacity, feed.Len())
	assert.Len(t, feed.Recent(0), DefaultCapacity)
}
