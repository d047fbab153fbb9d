package stubserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/emails"
	"github.com/inventrack/console/internal/inventory"
)

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var start, end *time.Time
	if raw := q.Get("startDate"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			start = &ts
		}
	}
	if raw := q.Get("endDate"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			end = &ts
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inventory.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		if pid := q.Get("productId"); pid != "" && m.ProductID != pid {
			continue
		}
		if typ := q.Get("type"); typ != "" && string(m.Type) != typ {
			continue
		}
		if start != nil && m.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && m.CreatedAt.After(*end) {
			continue
		}
		out = append(out, m)
	}
	writeSuccess(w, out)
}

// handleCreateMovement appends the movement, recomputes the product's
// stock, then evaluates the product's alert rule: dropping below the
// threshold raises an alert, climbing back to it resolves the active one.
// Both transitions append to the email log.
func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var in inventory.CreateMovementInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user := s.userForRequest(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.findProduct(in.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	current := s.stock[product.ID]
	switch in.Type {
	case inventory.MovementIn:
		current += in.Quantity
	case inventory.MovementOut:
		if in.Quantity > current {
			writeError(w, http.StatusBadRequest, "insufficient stock")
			return
		}
		current -= in.Quantity
	case inventory.MovementAdjustment:
		current = in.Quantity
	}
	s.stock[product.ID] = current

	m := inventory.Movement{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Product:   inventory.ProductRef{ID: product.ID, Name: product.Name, SKU: product.SKU},
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		UserID:    user.ID,
		User:      inventory.UserRef{ID: user.ID, Email: user.Email},
		CreatedAt: s.now(),
	}
	s.movements = append([]inventory.Movement{m}, s.movements...)

	s.evaluateAlerts(product.ID, product.Name, product.SKU, current)
	writeCreated(w, m)
}

// evaluateAlerts runs with s.mu held.
func (s *Server) evaluateAlerts(productID, name, sku string, stock int) {
	var rule *alerts.Rule
	for i := range s.rules {
		if s.rules[i].ProductID == productID && s.rules[i].IsActive {
			rule = &s.rules[i]
			break
		}
	}
	if rule == nil {
		return
	}

	activeIdx := -1
	for i := range s.alerts {
		if s.alerts[i].ProductID == productID && s.alerts[i].Status == alerts.StatusActive {
			activeIdx = i
			break
		}
	}

	if stock < rule.MinStockThreshold && activeIdx < 0 {
		s.alerts = append(s.alerts, alerts.Alert{
			ID:           uuid.NewString(),
			ProductID:    productID,
			Product:      alerts.ProductRef{ID: productID, Name: name, SKU: sku},
			Threshold:    rule.MinStockThreshold,
			CurrentStock: stock,
			Status:       alerts.StatusActive,
			CreatedAt:    s.now(),
		})
		s.logEmail(emails.TypeLowStockAlert, "Low stock: "+name, name, sku)
		return
	}
	if stock >= rule.MinStockThreshold && activeIdx >= 0 {
		resolvedAt := s.now()
		s.alerts[activeIdx].Status = alerts.StatusResolved
		s.alerts[activeIdx].ResolvedAt = &resolvedAt
		s.logEmail(emails.TypeStockReplenished, "Stock replenished: "+name, name, sku)
	}
}

// logEmail runs with s.mu held. Delivery always succeeds here; there is
// no real mail transport behind the stub.
func (s *Server) logEmail(typ emails.Type, subject, productName, productSKU string) {
	sentAt := s.now()
	s.emails = append([]emails.Email{{
		ID:          uuid.NewString(),
		To:          "ops@inventrack.local",
		Subject:     subject,
		Type:        typ,
		Success:     true,
		SentAt:      &sentAt,
		ProductName: productName,
		ProductSKU:  productSKU,
		CreatedAt:   sentAt,
	}}, s.emails...)
}

// itemProjection runs with s.mu held.
func (s *Server) itemProjection(productID string) (inventory.Item, bool) {
	product, ok := s.findProduct(productID)
	if !ok {
		return inventory.Item{}, false
	}
	item := inventory.Item{
		ProductID:    product.ID,
		CurrentStock: s.stock[product.ID],
	}
	item.Product.ID = product.ID
	item.Product.Name = product.Name
	item.Product.SKU = product.SKU
	item.Product.Price = product.Price
	item.Product.Category.ID = product.Category.ID
	item.Product.Category.Name = product.Category.Name
	for _, m := range s.movements {
		if m.ProductID != product.ID {
			continue
		}
		item.Movements.Total++
		switch m.Type {
		case inventory.MovementIn:
			item.Movements.In++
		case inventory.MovementOut:
			item.Movements.Out++
		case inventory.MovementAdjustment:
			item.Movements.Adjustments++
		}
		if item.LastMovement == nil || m.CreatedAt.After(*item.LastMovement) {
			ts := m.CreatedAt
			item.LastMovement = &ts
		}
	}
	return item, true
}

func (s *Server) handleStockAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var minStock, maxStock *int
	if raw := q.Get("minStock"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			minStock = &n
		}
	}
	if raw := q.Get("maxStock"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			maxStock = &n
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inventory.Item, 0, len(s.products))
	for _, p := range s.products {
		item, _ := s.itemProjection(p.ID)
		if name := q.Get("productName"); name != "" && item.Product.Name != name {
			continue
		}
		if catID := q.Get("categoryId"); catID != "" && item.Product.Category.ID != catID {
			continue
		}
		if minStock != nil && item.CurrentStock < *minStock {
			continue
		}
		if maxStock != nil && item.CurrentStock > *maxStock {
			continue
		}
		out = append(out, item)
	}
	writeSuccess(w, out)
}

func (s *Server) handleStockOne(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.itemProjection(productID); ok {
		writeSuccess(w, item)
		return
	}
	writeError(w, http.StatusNotFound, "product not found")
}
