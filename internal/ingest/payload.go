package ingest

import (
	"fmt"
	"strings"
)

// NumericPolicy decides what happens when a mapped numeric cell does not
// parse. The original system silently coerced to zero; that stays the
// default, but the choice is explicit and per-build.
type NumericPolicy int

const (
	// CoerceZero treats malformed numeric cells as 0 without comment.
	CoerceZero NumericPolicy = iota
	// CoerceWarn coerces to 0 and records a warning for the row.
	CoerceWarn
	// Reject fails the whole build on the first malformed numeric cell.
	Reject
)

// ParseNumericPolicy maps the wire names onto a NumericPolicy.
func ParseNumericPolicy(s string) (NumericPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "coerce", "coerce-zero":
		return CoerceZero, nil
	case "warn", "coerce-warn":
		return CoerceWarn, nil
	case "reject":
		return Reject, nil
	}
	return CoerceZero, fmt.Errorf("unknown numeric policy %q", s)
}

// Item is one invoice line of the outbound submission. Net and gross keep
// their original raw formatting; only the discount is derived.
type Item struct {
	Barang         string `json:"Barang"`
	SalesQty       string `json:"Sales Qty"`
	NetSales       string `json:"Net Sales"`
	GrossSales     string `json:"Gross Sales"`
	DiscountAmount string `json:"Discount Amount"`
}

// SubmissionPayload is the single JSON document POSTed to the workflow
// webhook. Meta fields appear once at the root; mappingUsed echoes the
// operator's column mapping for the receiving system's audit trail.
type SubmissionPayload struct {
	Source        string       `json:"source"`
	Target        string       `json:"target"`
	NomorFaktur   string       `json:"Nomor Faktur"`
	Keterangan    string       `json:"Keterangan"`
	TanggalReport string       `json:"Tanggal Report"`
	KodePelanggan string       `json:"Kode Pelanggan"`
	RowCount      int          `json:"rowCount"`
	MappingUsed   FieldMapping `json:"mappingUsed"`
	Items         []Item       `json:"items"`
}

// RowWarning flags a malformed numeric cell coerced to zero under CoerceWarn.
type RowWarning struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// BuildResult carries the assembled payload plus any numeric warnings.
type BuildResult struct {
	Payload  SubmissionPayload
	Warnings []RowWarning
}

const payloadSource = "faktur-penjualan"

// BuildPayload projects every record through the mapping, in original row
// order, and assembles the outbound submission. Discount per row is
// parse(gross) - parse(net), transmitted as its plain decimal string; net and
// gross themselves are passed through as raw strings.
func BuildPayload(set RecordSet, mapping FieldMapping, meta Meta, target string, policy NumericPolicy) (BuildResult, error) {
	get := func(rec map[string]string, header string) string {
		if header == "" {
			return ""
		}
		return rec[header]
	}

	result := BuildResult{}
	items := make([]Item, 0, len(set.Records))
	for i, rec := range set.Records {
		netStr := get(rec, mapping.NetSales)
		grossStr := get(rec, mapping.GrossSales)

		net, netOK := parseNumberStrict(netStr)
		gross, grossOK := parseNumberStrict(grossStr)

		if !netOK || !grossOK {
			switch policy {
			case Reject:
				field, value := "netSales", netStr
				if netOK {
					field, value = "grossSales", grossStr
				}
				return BuildResult{}, fmt.Errorf("row %d: %s value %q is not numeric", i+1, field, value)
			case CoerceWarn:
				if !netOK {
					result.Warnings = append(result.Warnings, RowWarning{Row: i + 1, Field: "netSales", Value: netStr})
				}
				if !grossOK {
					result.Warnings = append(result.Warnings, RowWarning{Row: i + 1, Field: "grossSales", Value: grossStr})
				}
			}
		}

		items = append(items, Item{
			Barang:         get(rec, mapping.Barang),
			SalesQty:       get(rec, mapping.SalesQty),
			NetSales:       netStr,
			GrossSales:     grossStr,
			DiscountAmount: gross.Sub(net).String(),
		})
	}

	result.Payload = SubmissionPayload{
		Source:        payloadSource,
		Target:        target,
		NomorFaktur:   strings.TrimSpace(meta.NomorFaktur),
		Keterangan:    strings.TrimSpace(meta.Keterangan),
		TanggalReport: strings.TrimSpace(meta.TanggalReport),
		KodePelanggan: strings.TrimSpace(meta.KodePelanggan),
		RowCount:      len(items),
		MappingUsed:   mapping,
		Items:         items,
	}
	return result, nil
}
