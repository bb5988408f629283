package feed

import (
	"log"
	"net/http"
	"sync"

	"limitbook/internal/config"
	"limitbook/internal/engine"
)

// bookGuard serializes access to one engine.Book. The engine itself holds no
// mutex, so the feed server is the serializing caller.
type bookGuard struct {
	mu   sync.Mutex
	book *engine.Book
}

// Server holds all dependencies for the HTTP + WebSocket feed.
type Server struct {
	cfg      *config.Config
	registry *engine.Registry
	wsHub    *Hub

	mu     sync.Mutex
	guards map[string]*bookGuard
}

// NewServer creates a new feed server over the given book registry.
func NewServer(cfg *config.Config, registry *engine.Registry) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		wsHub:    NewHub(),
		guards:   make(map[string]*bookGuard),
	}
}

func (s *Server) guardFor(symbol string) *bookGuard {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guards[symbol]
	if !ok {
		g = &bookGuard{book: s.registry.GetOrCreate(symbol)}
		s.guards[symbol] = g
	}
	return g
}

// RegisterRoutes registers all HTTP routes.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/orders", s.handlePlaceOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", s.handleCancelOrder)
	mux.HandleFunc("GET /api/book", s.handleGetBook)

	mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	go s.wsHub.Run()

	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	handler := corsMiddleware(mux)

	addr := ":" + s.cfg.ServerPort
	log.Printf("Server starting on %s", addr)
	return http.ListenAndServe(addr, handler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
