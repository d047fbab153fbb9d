// Package stubserver is an in-memory implementation of the inventory
// backend's REST surface. It exists so the client has a runnable target
// in development and a real HTTP peer in integration tests; it mimics
// the production backend's observable behavior, envelopes included.
package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/categories"
	"github.com/inventrack/console/internal/emails"
	"github.com/inventrack/console/internal/inventory"
	"github.com/inventrack/console/internal/products"
	"github.com/inventrack/console/internal/session"
	"github.com/inventrack/console/pkg/logger"
)

type account struct {
	user     session.User
	password string
}

// Server holds the in-memory dataset behind one mutex; request volume is
// a single developer or a test run.
type Server struct {
	logg *logger.Logger

	mu         sync.Mutex
	accounts   map[string]account // keyed by email
	tokens     map[string]string  // token -> user id
	categories []categories.Category
	products   []products.Product
	movements  []inventory.Movement // newest first
	stock      map[string]int
	rules      []alerts.Rule
	alerts     []alerts.Alert
	emails     []emails.Email
	now        func() time.Time
}

func New(logg *logger.Logger) *Server {
	return &Server{
		logg:     logg,
		accounts: map[string]account{},
		tokens:   map[string]string{},
		stock:    map[string]int{},
		now:      time.Now,
	}
}

// Handler builds the chi router exposing the consumed REST surface plus
// /metrics.
func (s *Server) Handler(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/me", s.handleMe)

		r.Get("/products", s.handleListProducts)
		r.Post("/products", s.handleCreateProduct)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Patch("/products/{id}", s.handleUpdateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)

		r.Get("/categories", s.handleListCategories)
		r.Post("/categories", s.handleCreateCategory)
		r.Get("/categories/{id}", s.handleGetCategory)
		r.Patch("/categories/{id}", s.handleUpdateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)

		r.Get("/inventory", s.handleListMovements)
		r.Post("/inventory", s.handleCreateMovement)
		r.Get("/inventory/stock/all", s.handleStockAll)
		r.Get("/inventory/stock/{productId}", s.handleStockOne)

		r.Get("/alerts", s.handleListAlerts)
		r.Get("/alerts/stats", s.handleAlertStats)
		r.Patch("/alerts/{id}/resolve", s.handleResolveAlert)

		r.Get("/alerts/rules", s.handleListRules)
		r.Post("/alerts/rules", s.handleCreateRule)
		r.Get("/alerts/rules/{id}", s.handleGetRule)
		r.Patch("/alerts/rules/{id}", s.handleUpdateRule)
		r.Delete("/alerts/rules/{id}", s.handleDeleteRule)

		r.Get("/emails", s.handleListEmails)
		r.Get("/emails/stats", s.handleEmailStats)
	})

	if reg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := s.logg.WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
		s.logg.Debug(s.logg.WithFields(ctx, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}), "request")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func writeCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": data})
}

// writeBare skips the envelope; the production backend's rules listing
// does the same, which is exactly why the client normalizes at the
// transport boundary.
func writeBare(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeBody(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dest)
}

// --- auth ---

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			writeError(w, http.StatusUnauthorized, "missing credentials")
			return
		}
		token := strings.TrimSpace(raw[7:])
		s.mu.Lock()
		_, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) userForRequest(r *http.Request) session.User {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	token := strings.TrimSpace(raw[len("Bearer "):])
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := s.tokens[token]
	for _, acct := range s.accounts {
		if acct.user.ID == userID {
			return acct.user
		}
	}
	return session.User{}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	if _, exists := s.accounts[creds.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	role := session.RoleStaff
	if len(s.accounts) == 0 {
		role = session.RoleAdmin
	}
	user := session.User{ID: uuid.NewString(), Email: creds.Email, Role: role, CreatedAt: s.now()}
	s.accounts[creds.Email] = account{user: user, password: creds.Password}
	token := uuid.NewString()
	s.tokens[token] = user.ID
	s.mu.Unlock()

	writeCreated(w, session.AuthPayload{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[creds.Email]
	if !ok || acct.password != creds.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token := uuid.NewString()
	s.tokens[token] = acct.user.ID
	s.mu.Unlock()

	writeSuccess(w, session.AuthPayload{Token: token, User: acct.user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := s.userForRequest(r)
	writeSuccess(w, map[string]any{"user": user})
}

// RevokeTokens invalidates every issued token; tests use it to simulate
// an expired session.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]string{}
}
