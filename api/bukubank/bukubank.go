package bukubank

import (
	"log"
	"net/http"

	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartLedgerService serves the buku bank (bank ledger) endpoints.
func StartLedgerService(pool *pgxpool.Pool) {
	router := mux.NewRouter()

	router.HandleFunc("/ledger/buku-bank/to-fix", GetToFix(pool)).Methods("GET")
	router.HandleFunc("/ledger/buku-bank/search", Search(pool)).Methods("GET")
	router.HandleFunc("/ledger/buku-bank/month-summary", MonthSummary(pool)).Methods("GET")
	router.HandleFunc("/ledger/buku-bank/{id}", Update(pool)).Methods("PATCH")

	log.Println("Ledger Service started on", config.LedgerPort)
	if err := http.ListenAndServe(config.LedgerPort, router); err != nil {
		log.Fatalf("Ledger Service failed: %v", err)
	}
}

type LedgerService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewLedgerService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &LedgerService{config: cfg, pool: pool}
}

func (s *LedgerService) Name() string { return "ledger" }

func (s *LedgerService) Start() error {
	go StartLedgerService(s.pool)
	return nil
}

func (s *LedgerService) Stop() error { return nil }
