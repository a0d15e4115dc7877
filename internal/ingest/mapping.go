package ingest

import "strings"

// FieldMapping associates the four logical invoice fields with header names
// chosen by the operator. An empty string means unset.
type FieldMapping struct {
	Barang     string `json:"barang"`
	NetSales   string `json:"netSales"`
	GrossSales string `json:"grossSales"`
	SalesQty   string `json:"salesQty"`
}

// Complete reports whether all four mappings point at a header name.
func (m FieldMapping) Complete() bool {
	return m.Barang != "" && m.NetSales != "" && m.GrossSales != "" && m.SalesQty != ""
}

// Meta holds the per-submission header fields, entered once and shared by
// every item.
type Meta struct {
	NomorFaktur   string `json:"nomor_faktur"`
	Keterangan    string `json:"keterangan"`
	TanggalReport string `json:"tanggal_report"`
	KodePelanggan string `json:"kode_pelanggan"`
}

// Session is one operator's active editing session: the RecordSet of the
// latest upload plus the current mapping and meta fields. It is held in
// memory only and fully replaced on each file load.
type Session struct {
	FileName string
	FileHash string
	Set      RecordSet
	Mapping  FieldMapping
	Meta     Meta
}

// LoadFile replaces the record set and unconditionally resets all four field
// mappings, even when the previously mapped header names still exist in the
// new file.
func (s *Session) LoadFile(name, hash string, set RecordSet) {
	s.FileName = name
	s.FileHash = hash
	s.Set = set
	s.Mapping = FieldMapping{}
}

// Clear discards the record set and mapping (upload removed or the operator
// navigated away).
func (s *Session) Clear() {
	*s = Session{}
}

// CanSubmit is the submission precondition: headers and records present,
// invoice number and report date filled in, and all four mappings set.
// Partial mappings are never silently defaulted.
func (s *Session) CanSubmit() bool {
	return len(s.Set.Headers) > 0 &&
		len(s.Set.Records) > 0 &&
		strings.TrimSpace(s.Meta.NomorFaktur) != "" &&
		strings.TrimSpace(s.Meta.TanggalReport) != "" &&
		s.Mapping.Complete()
}
