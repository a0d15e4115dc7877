package faktur

import (
	"log"
	"net/http"
	"sync"
	"time"

	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/ingest"
	"BridgingTomoro/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sessionStore holds the single active editing session per operator. Nothing
// here is persisted: the record set of an upload lives only until the next
// upload, an explicit discard, or process exit.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*ingest.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*ingest.Session)}
}

func (s *sessionStore) replace(userID string, sess *ingest.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

func (s *sessionStore) get(userID string) *ingest.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

// submission applies the operator's mapping and meta under the store lock
// and returns a copy of the session. Concurrent submits for one user each
// build from their own copy instead of racing on the shared value.
func (s *sessionStore) submission(userID string, mapping ingest.FieldMapping, meta ingest.Meta) (ingest.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	if sess == nil {
		return ingest.Session{}, false
	}
	sess.Mapping = mapping
	sess.Meta = meta
	return *sess, true
}

func (s *sessionStore) drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// StartFakturService serves the faktur-penjualan ingestion endpoints:
// upload/parse, mapping submission, and session discard.
func StartFakturService(pool *pgxpool.Pool) {
	store := newSessionStore()
	webhookURL := config.Env("FAKTUR_WEBHOOK_URL", config.DefaultFakturWebhookURL)
	client := &http.Client{Timeout: 60 * time.Second}

	router := mux.NewRouter()
	router.HandleFunc("/faktur/upload", UploadHandler(store, pool)).Methods("POST")
	router.HandleFunc("/faktur/submit", SubmitHandler(store, pool, client, webhookURL)).Methods("POST")
	router.HandleFunc("/faktur/session", DropSessionHandler(store)).Methods("DELETE")

	log.Println("Faktur Service started on", config.FakturPort)
	if err := http.ListenAndServe(config.FakturPort, router); err != nil {
		log.Fatalf("Faktur Service failed: %v", err)
	}
}

type FakturService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewFakturService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &FakturService{config: cfg, pool: pool}
}

func (s *FakturService) Name() string { return "faktur" }

func (s *FakturService) Start() error {
	go StartFakturService(s.pool)
	return nil
}

func (s *FakturService) Stop() error { return nil }
