package sales

import (
	"log"
	"net/http"

	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartSalesService serves the sales_tomoro endpoints.
func StartSalesService(pool *pgxpool.Pool) {
	router := mux.NewRouter()

	router.HandleFunc("/sales/sales-tomoro/to-fix", GetToFix(pool)).Methods("GET")
	router.HandleFunc("/sales/sales-tomoro/search", Search(pool)).Methods("GET")
	router.HandleFunc("/sales/sales-tomoro/summary", Summary(pool)).Methods("GET")
	router.HandleFunc("/sales/sales-tomoro/date-range", DateRange(pool)).Methods("GET")
	router.HandleFunc("/sales/sales-tomoro/{id}", Update(pool)).Methods("PATCH")

	log.Println("Sales Service started on", config.SalesPort)
	if err := http.ListenAndServe(config.SalesPort, router); err != nil {
		log.Fatalf("Sales Service failed: %v", err)
	}
}

type SalesService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewSalesService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &SalesService{config: cfg, pool: pool}
}

func (s *SalesService) Name() string { return "sales" }

func (s *SalesService) Start() error {
	go StartSalesService(s.pool)
	return nil
}

func (s *SalesService) Stop() error { return nil }
