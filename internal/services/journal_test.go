package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trailbook/trailbook-backend/internal/models"
)

func entryAt(title string, ts time.Time) models.JournalEntry {
	return models.JournalEntry{Title: title, CreatedAt: ts}
}

func TestSortEntriesNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entries := []models.JournalEntry{
		entryAt("middle", base.Add(1*time.Hour)),
		entryAt("oldest", base),
		entryAt("newest", base.Add(2*time.Hour)),
	}

	SortEntriesNewestFirst(entries)

	assert.Equal(t, "newest", entries[0].Title)
	assert.Equal(t, "middle", entries[1].Title)
	assert.Equal(t, "oldest", entries[2].Title)
}

func TestSortEntriesMissingTimestampSortsLast(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entries := []models.JournalEntry{
		entryAt("no timestamp", time.Time{}),
		entryAt("new", base.Add(time.Hour)),
		entryAt("old", base),
		entryAt("also no timestamp", time.Time{}),
	}

	SortEntriesNewestFirst(entries)

	assert.Equal(t, "new", entries[0].Title)
	assert.Equal(t, "old", entries[1].Title)
	// Entries without a timestamp sort as oldest, preserving relative order.
	assert.Equal(t, "no timestamp", entries[2].Title)
	assert.Equal(t, "also no timestamp", entries[3].Title)
}

func TestSortEntriesEmpty(t *testing.T) {
	var entries []models.JournalEntry
	SortEntriesNewestFirst(entries)
	assert.Empty(t, entries)
}
