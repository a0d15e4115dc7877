package faktur

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"BridgingTomoro/internal/checksum"
	"BridgingTomoro/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestUpload_ReplacesSession(t *testing.T) {
	store := newSessionStore()
	data := []byte("item,net,gross,qty\nKOPI,75000,100000,3\n")

	sess, err := ingestUpload(store, "u-1", "a.csv", checksum.FileHash(data), data)
	require.NoError(t, err)
	require.Same(t, sess, store.get("u-1"))
	assert.Equal(t, []string{"item", "net", "gross", "qty"}, sess.Set.Headers)
	assert.Len(t, sess.Set.Records, 1)
}

func TestIngestUpload_FailedParseDropsStaleSession(t *testing.T) {
	store := newSessionStore()
	good := []byte("item,net\nKOPI,75000\n")

	_, err := ingestUpload(store, "u-1", "good.csv", checksum.FileHash(good), good)
	require.NoError(t, err)
	require.NotNil(t, store.get("u-1"))

	// corrupt workbook: recognized extension, nothing parseable
	_, err = ingestUpload(store, "u-1", "broken.xlsx", "h", []byte("not a workbook"))
	require.Error(t, err)

	// the earlier upload must not remain submittable
	assert.Nil(t, store.get("u-1"))
	_, ok := store.submission("u-1", ingest.FieldMapping{}, ingest.Meta{})
	assert.False(t, ok)
}

func TestIngestUpload_EmptyCSVDropsStaleSession(t *testing.T) {
	store := newSessionStore()
	good := []byte("item,net\nKOPI,75000\n")

	_, err := ingestUpload(store, "u-1", "good.csv", checksum.FileHash(good), good)
	require.NoError(t, err)

	_, err = ingestUpload(store, "u-1", "empty.csv", "h", []byte("\n\n"))
	require.Error(t, err)
	assert.Nil(t, store.get("u-1"))
}

func TestPreviewRecords_Capped(t *testing.T) {
	var b strings.Builder
	b.WriteString("item\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "BRG-%d\n", i)
	}
	set := ingest.ParseCSV(b.String())
	require.Len(t, set.Records, 12)

	preview := previewRecords(set, previewLimit)
	require.Len(t, preview, 5)
	assert.Equal(t, "BRG-0", preview[0]["item"])
	assert.Equal(t, "BRG-4", preview[4]["item"])

	// fewer records than the cap come back whole
	small := ingest.ParseCSV("item\nBRG-0\n")
	assert.Len(t, previewRecords(small, previewLimit), 1)
}

func TestSessionStore_SubmissionSnapshot(t *testing.T) {
	store := newSessionStore()
	data := []byte("item,net,gross,qty\nKOPI,75000,100000,3\n")
	_, err := ingestUpload(store, "u-1", "a.csv", checksum.FileHash(data), data)
	require.NoError(t, err)

	mapping := ingest.FieldMapping{Barang: "item", NetSales: "net", GrossSales: "gross", SalesQty: "qty"}
	meta := ingest.Meta{NomorFaktur: "INV-1", TanggalReport: "2025-08-31"}

	snap, ok := store.submission("u-1", mapping, meta)
	require.True(t, ok)
	assert.True(t, snap.CanSubmit())
	assert.Equal(t, mapping, snap.Mapping)

	// the snapshot is a copy: mutating it leaves the stored session alone
	snap.Meta.NomorFaktur = "INV-2"
	again, ok := store.submission("u-1", mapping, meta)
	require.True(t, ok)
	assert.Equal(t, "INV-1", again.Meta.NomorFaktur)

	_, ok = store.submission("nobody", mapping, meta)
	assert.False(t, ok)
}

func TestSessionStore_ConcurrentSubmissions(t *testing.T) {
	store := newSessionStore()
	data := []byte("item,net,gross,qty\nKOPI,75000,100000,3\n")
	_, err := ingestUpload(store, "u-1", "a.csv", checksum.FileHash(data), data)
	require.NoError(t, err)

	mapping := ingest.FieldMapping{Barang: "item", NetSales: "net", GrossSales: "gross", SalesQty: "qty"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			meta := ingest.Meta{NomorFaktur: fmt.Sprintf("INV-%d", n), TanggalReport: "2025-08-31"}
			snap, ok := store.submission("u-1", mapping, meta)
			assert.True(t, ok)
			assert.Equal(t, meta, snap.Meta)
			assert.True(t, snap.CanSubmit())
		}(i)
	}
	wg.Wait()
}
