package accurate

import (
	"log"
	"net/http"

	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartAccurateService serves the Accurate integration: account/data host
// proxies, the mirrored item master, and orphan item resolution.
func StartAccurateService(pool *pgxpool.Pool) {
	client := NewClientFromEnv()

	router := mux.NewRouter()
	router.HandleFunc("/accurate/db-list", DBListHandler(client)).Methods("GET")
	router.HandleFunc("/accurate/open-db", OpenDBHandler(client)).Methods("GET")
	router.HandleFunc("/accurate/barang", GetBarang(pool)).Methods("GET")
	router.HandleFunc("/accurate/barang-yatim", GetBarangYatim(pool)).Methods("GET")
	router.HandleFunc("/accurate/resolve-yatim", ResolveYatim(pool)).Methods("POST")
	router.HandleFunc("/accurate/sales-invoice", SaveSalesInvoiceHandler(client)).Methods("POST")

	log.Println("Accurate Service started on", config.AccuratePort)
	if err := http.ListenAndServe(config.AccuratePort, router); err != nil {
		log.Fatalf("Accurate Service failed: %v", err)
	}
}

type AccurateService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewAccurateService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &AccurateService{config: cfg, pool: pool}
}

func (s *AccurateService) Name() string { return "accurate" }

func (s *AccurateService) Start() error {
	go StartAccurateService(s.pool)
	return nil
}

func (s *AccurateService) Stop() error { return nil }
