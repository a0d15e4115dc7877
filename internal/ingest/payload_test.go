package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_DiscountAndPassthrough(t *testing.T) {
	set := sampleSet()
	meta := Meta{
		NomorFaktur:   " INV-001 ",
		Keterangan:    "agustus",
		TanggalReport: "2025-08-31",
		KodePelanggan: "C-9",
	}

	res, err := BuildPayload(set, fullMapping(), meta, "https://hook.example/wh", CoerceZero)
	require.NoError(t, err)

	p := res.Payload
	assert.Equal(t, "faktur-penjualan", p.Source)
	assert.Equal(t, "https://hook.example/wh", p.Target)
	assert.Equal(t, "INV-001", p.NomorFaktur)
	assert.Equal(t, 1, p.RowCount)
	assert.Equal(t, fullMapping(), p.MappingUsed)

	require.Len(t, p.Items, 1)
	it := p.Items[0]
	assert.Equal(t, "KOPI", it.Barang)
	assert.Equal(t, "3", it.SalesQty)
	// net and gross keep their raw formatting, only the discount is derived
	assert.Equal(t, "75.000,00", it.NetSales)
	assert.Equal(t, "100.000,00", it.GrossSales)
	assert.Equal(t, "25000", it.DiscountAmount)
}

func TestBuildPayload_ItemsMatchRecords(t *testing.T) {
	set := sampleSet()
	set.Records = append(set.Records,
		map[string]string{"item": "TEH", "net": "10", "gross": "10", "qty": "1"},
		map[string]string{"item": "SUSU", "net": "5", "gross": "7", "qty": "2"},
	)

	res, err := BuildPayload(set, fullMapping(), Meta{NomorFaktur: "X", TanggalReport: "2025-08-01"}, "t", CoerceZero)
	require.NoError(t, err)
	assert.Len(t, res.Payload.Items, 3)
	assert.Equal(t, 3, res.Payload.RowCount)
	// original row order is preserved
	assert.Equal(t, "TEH", res.Payload.Items[1].Barang)
	assert.Equal(t, "0", res.Payload.Items[1].DiscountAmount)
	assert.Equal(t, "2", res.Payload.Items[2].DiscountAmount)
}

func TestBuildPayload_UnmappedOptionalValuesEmpty(t *testing.T) {
	set := sampleSet()
	m := fullMapping()

	res, err := BuildPayload(set, m, Meta{}, "t", CoerceZero)
	require.NoError(t, err)
	assert.Equal(t, "", res.Payload.Keterangan)
	assert.Equal(t, "", res.Payload.KodePelanggan)
}

func TestBuildPayload_JSONKeys(t *testing.T) {
	res, err := BuildPayload(sampleSet(), fullMapping(), Meta{NomorFaktur: "N", TanggalReport: "D"}, "t", CoerceZero)
	require.NoError(t, err)

	raw, err := json.Marshal(res.Payload)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{
		"source", "target", "Nomor Faktur", "Keterangan", "Tanggal Report",
		"Kode Pelanggan", "rowCount", "mappingUsed", "items",
	} {
		assert.Contains(t, doc, key)
	}

	var items []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["items"], &items))
	require.Len(t, items, 1)
	for _, key := range []string{"Barang", "Sales Qty", "Net Sales", "Gross Sales", "Discount Amount"} {
		assert.Contains(t, items[0], key)
	}
}

func TestBuildPayload_NumericPolicies(t *testing.T) {
	set := sampleSet()
	set.Records[0]["net"] = "abc"

	t.Run("coerce-zero stays silent", func(t *testing.T) {
		res, err := BuildPayload(set, fullMapping(), Meta{}, "t", CoerceZero)
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
		// net coerced to 0, so discount equals gross
		assert.Equal(t, "100000", res.Payload.Items[0].DiscountAmount)
	})

	t.Run("coerce-warn records the cell", func(t *testing.T) {
		res, err := BuildPayload(set, fullMapping(), Meta{}, "t", CoerceWarn)
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, 1, res.Warnings[0].Row)
		assert.Equal(t, "netSales", res.Warnings[0].Field)
		assert.Equal(t, "abc", res.Warnings[0].Value)
	})

	t.Run("reject fails the build", func(t *testing.T) {
		_, err := BuildPayload(set, fullMapping(), Meta{}, "t", Reject)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1")
	})

	t.Run("blank cells are not warnings", func(t *testing.T) {
		blank := sampleSet()
		blank.Records[0]["net"] = ""
		res, err := BuildPayload(blank, fullMapping(), Meta{}, "t", Reject)
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
	})
}

func TestParseNumericPolicy(t *testing.T) {
	for in, want := range map[string]NumericPolicy{
		"":            CoerceZero,
		"coerce":      CoerceZero,
		"coerce-zero": CoerceZero,
		"warn":        CoerceWarn,
		"coerce-warn": CoerceWarn,
		"reject":      Reject,
		"REJECT":      Reject,
	} {
		got, err := ParseNumericPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseNumericPolicy("panic")
	assert.Error(t, err)
}
