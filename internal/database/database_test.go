package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestJournalIndexKeysAreOrdered(t *testing.T) {
	keys, ok := journalIndexModel().Keys.(bson.D)
	require.True(t, ok, "index keys must be an ordered document, the driver rejects multi-key maps")
	require.Len(t, keys, 2)
	assert.Equal(t, bson.E{Key: "user_id", Value: 1}, keys[0])
	assert.Equal(t, bson.E{Key: "created_at", Value: -1}, keys[1])
}
