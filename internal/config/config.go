package config

import (
	"os"
	"strings"
)

const (
	DefaultTimeZone = "Asia/Jakarta"

	// Service ports (gateway proxies by path prefix)
	GatewayPort  = ":8081"
	LedgerPort   = ":3143"
	SalesPort    = ":4143"
	RekonPort    = ":5143"
	FakturPort   = ":6143"
	AccuratePort = ":7143"

	// Accurate API hosts (overridable via env)
	DefaultAccurateAccountHost = "https://account.accurate.id"
	DefaultAccurateDataHost    = "https://zeus.accurate.id"

	// Workflow webhook that receives faktur-penjualan submissions
	DefaultFakturWebhookURL = "https://kabel.web.id/webhook/faktur-penjualan"

	// Item cache refresh (accurate_barang)
	DefaultBarangRefreshSchedule = "0 2 * * *" // nightly at 02:00
	BarangRefreshPageSize        = 100

	// Search/list limit caps shared by the CRUD services
	DefaultSearchLimit = 200
	DefaultToFixLimit  = 500
	MaxListLimit       = 2000

	// Upload size cap for faktur file parsing
	MaxUploadBytes = 32 << 20
)

// Env returns an environment variable with a fallback.
func Env(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// OfflineMode reports whether the process was started in offline/build mode.
// In offline mode no database pools are constructed; services that need a
// pool refuse to start. This replaces implicit build-phase sniffing with an
// explicit flag.
func OfflineMode() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("OFFLINE_MODE")))
	return v == "true" || v == "1" || v == "yes"
}
