package rekonsiliasi

import (
	"log"
	"net/http"

	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartRekonService serves the reconciliation tracking endpoints.
func StartRekonService(pool *pgxpool.Pool) {
	router := mux.NewRouter()

	router.HandleFunc("/rekon/rekonsiliasi", List(pool)).Methods("GET")
	router.HandleFunc("/rekon/rekonsiliasi/{id}", Detail(pool)).Methods("GET")

	log.Println("Rekon Service started on", config.RekonPort)
	if err := http.ListenAndServe(config.RekonPort, router); err != nil {
		log.Fatalf("Rekon Service failed: %v", err)
	}
}

type RekonService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewRekonService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &RekonService{config: cfg, pool: pool}
}

func (s *RekonService) Name() string { return "rekon" }

func (s *RekonService) Start() error {
	go StartRekonService(s.pool)
	return nil
}

func (s *RekonService) Stop() error { return nil }
