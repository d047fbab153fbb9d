package stubserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/emails"
)

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	resolved := r.URL.Query().Get("resolved")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]alerts.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		switch resolved {
		case "true":
			if a.Status != alerts.StatusResolved {
				continue
			}
		case "false":
			if a.Status != alerts.StatusActive {
				continue
			}
		}
		out = append(out, a)
	}
	writeSuccess(w, out)
}

func (s *Server) handleAlertStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats alerts.Stats
	for _, a := range s.alerts {
		stats.TotalAlerts++
		if a.Status == alerts.StatusActive {
			stats.ActiveAlerts++
		} else {
			stats.ResolvedAlerts++
		}
	}
	writeSuccess(w, stats)
}

func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		if s.alerts[i].Status == alerts.StatusResolved {
			writeError(w, http.StatusConflict, "alert already resolved")
			return
		}
		resolvedAt := s.now()
		s.alerts[i].Status = alerts.StatusResolved
		s.alerts[i].ResolvedAt = &resolvedAt
		writeSuccess(w, s.alerts[i])
		return
	}
	writeError(w, http.StatusNotFound, "alert not found")
}

// --- rules ---

// handleListRules responds with a bare array, no envelope, matching the
// production backend's quirk on this one route.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]alerts.Rule, len(s.rules))
	copy(out, s.rules)
	writeBare(w, out)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var in alerts.CreateRuleInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.findProduct(in.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	for _, rule := range s.rules {
		if rule.ProductID == in.ProductID {
			writeError(w, http.StatusConflict, "rule already exists for product")
			return
		}
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := s.now()
	rule := alerts.Rule{
		ID:                uuid.NewString(),
		ProductID:         product.ID,
		Product:           alerts.ProductRef{ID: product.ID, Name: product.Name, SKU: product.SKU},
		MinStockThreshold: in.MinStockThreshold,
		IsActive:          active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.rules = append(s.rules, rule)
	writeCreated(w, rule)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rule := range s.rules {
		if rule.ID == id {
			writeSuccess(w, rule)
			return
		}
	}
	writeError(w, http.StatusNotFound, "rule not found")
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in alerts.UpdateRuleInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID != id {
			continue
		}
		if in.MinStockThreshold != nil {
			s.rules[i].MinStockThreshold = *in.MinStockThreshold
		}
		if in.IsActive != nil {
			s.rules[i].IsActive = *in.IsActive
		}
		s.rules[i].UpdatedAt = s.now()
		writeSuccess(w, s.rules[i])
		return
	}
	writeError(w, http.StatusNotFound, "rule not found")
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			writeSuccess(w, map[string]string{"_id": id})
			return
		}
	}
	writeError(w, http.StatusNotFound, "rule not found")
}

// --- emails ---

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]emails.Email, 0, len(s.emails))
	for _, e := range s.emails {
		if typ := q.Get("type"); typ != "" && string(e.Type) != typ {
			continue
		}
		switch q.Get("status") {
		case "sent":
			if !e.Success {
				continue
			}
		case "failed":
			if e.Success {
				continue
			}
		}
		out = append(out, e)
	}
	writeSuccess(w, out)
}

func (s *Server) handleEmailStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats emails.Stats
	for _, e := range s.emails {
		stats.TotalEmails++
		switch {
		case e.Success:
			stats.SentEmails++
		case e.Error != "":
			stats.FailedEmails++
		default:
			stats.PendingEmails++
		}
	}
	writeSuccess(w, stats)
}
