package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleSet() RecordSet {
	return RecordSet{
		Headers: []string{"item", "net", "gross", "qty"},
		Records: []map[string]string{
			{"item": "KOPI", "net": "75.000,00", "gross": "100.000,00", "qty": "3"},
		},
	}
}

func fullMapping() FieldMapping {
	return FieldMapping{Barang: "item", NetSales: "net", GrossSales: "gross", SalesQty: "qty"}
}

func TestFieldMapping_Complete(t *testing.T) {
	assert.True(t, fullMapping().Complete())
	m := fullMapping()
	m.SalesQty = ""
	assert.False(t, m.Complete())
	assert.False(t, FieldMapping{}.Complete())
}

func TestSession_LoadFileResetsMapping(t *testing.T) {
	s := &Session{}
	s.LoadFile("a.csv", "hash1", sampleSet())
	s.Mapping = fullMapping()

	// new file has the same headers, mapping still resets
	s.LoadFile("b.csv", "hash2", sampleSet())
	assert.Equal(t, FieldMapping{}, s.Mapping)
	assert.Equal(t, "b.csv", s.FileName)
	assert.Equal(t, "hash2", s.FileHash)
}

func TestSession_Clear(t *testing.T) {
	s := &Session{}
	s.LoadFile("a.csv", "h", sampleSet())
	s.Mapping = fullMapping()
	s.Meta = Meta{NomorFaktur: "INV-1"}

	s.Clear()
	assert.Equal(t, Session{}, *s)
}

func TestSession_CanSubmit(t *testing.T) {
	base := func() *Session {
		s := &Session{}
		s.LoadFile("a.csv", "h", sampleSet())
		s.Mapping = fullMapping()
		s.Meta = Meta{NomorFaktur: "INV-1", TanggalReport: "2025-08-01"}
		return s
	}

	assert.True(t, base().CanSubmit())

	t.Run("no records", func(t *testing.T) {
		s := base()
		s.Set.Records = nil
		assert.False(t, s.CanSubmit())
	})
	t.Run("missing nomor faktur", func(t *testing.T) {
		s := base()
		s.Meta.NomorFaktur = "   "
		assert.False(t, s.CanSubmit())
	})
	t.Run("missing tanggal report", func(t *testing.T) {
		s := base()
		s.Meta.TanggalReport = ""
		assert.False(t, s.CanSubmit())
	})
	t.Run("partial mapping", func(t *testing.T) {
		s := base()
		s.Mapping.GrossSales = ""
		assert.False(t, s.CanSubmit())
	})
	t.Run("keterangan and kode pelanggan are optional", func(t *testing.T) {
		s := base()
		s.Meta.Keterangan = ""
		s.Meta.KodePelanggan = ""
		assert.True(t, s.CanSubmit())
	})
}
