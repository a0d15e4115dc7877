package faktur

import (
	"testing"

	"BridgingTomoro/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_ReplaceAndDrop(t *testing.T) {
	store := newSessionStore()
	assert.Nil(t, store.get("u-1"))

	first := &ingest.Session{}
	first.LoadFile("a.csv", "h1", ingest.RecordSet{Headers: []string{"x"}})
	store.replace("u-1", first)
	require.Same(t, first, store.get("u-1"))

	// a new upload fully replaces the previous session
	second := &ingest.Session{}
	second.LoadFile("b.csv", "h2", ingest.RecordSet{Headers: []string{"y"}})
	store.replace("u-1", second)
	require.Same(t, second, store.get("u-1"))
	assert.Equal(t, "b.csv", store.get("u-1").FileName)

	// sessions are per operator
	store.replace("u-2", first)
	assert.Same(t, first, store.get("u-2"))

	store.drop("u-1")
	assert.Nil(t, store.get("u-1"))
	assert.NotNil(t, store.get("u-2"))
}
