package stubserver

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/categories"
	"github.com/inventrack/console/internal/inventory"
	"github.com/inventrack/console/internal/products"
	"github.com/inventrack/console/internal/session"
)

// Seed loads a small demo dataset: one admin account, two categories,
// three products with movement history, and a rule that has already
// tripped for the low product.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	admin := session.User{ID: uuid.NewString(), Email: "admin@inventrack.local", Role: session.RoleAdmin, CreatedAt: now}
	s.accounts[admin.Email] = account{user: admin, password: "changeme"}

	tools := categories.Category{ID: uuid.NewString(), Name: "Tools", IsActive: true, CreatedAt: now, UpdatedAt: now}
	parts := categories.Category{ID: uuid.NewString(), Name: "Spare Parts", IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.categories = append(s.categories, tools, parts)

	seedProducts := []struct {
		name, sku string
		price     string
		category  categories.Category
		stock     int
		threshold int
	}{
		{"Torque Wrench", "TOOL-TW-01", "89.99", tools, 24, 5},
		{"Drill Bit Set", "TOOL-DB-14", "34.50", tools, 3, 10},
		{"Bearing 6204", "PART-BR-62", "4.75", parts, 140, 25},
	}
	for _, sp := range seedProducts {
		price, _ := decimal.NewFromString(sp.price)
		p := products.Product{
			ID:        uuid.NewString(),
			Name:      sp.name,
			SKU:       sp.sku,
			Price:     price,
			Category:  products.CategoryRef{ID: sp.category.ID, Name: sp.category.Name},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.products = append(s.products, p)
		s.stock[p.ID] = sp.stock
		s.movements = append([]inventory.Movement{{
			ID:        uuid.NewString(),
			ProductID: p.ID,
			Product:   inventory.ProductRef{ID: p.ID, Name: p.Name, SKU: p.SKU},
			Type:      inventory.MovementIn,
			Quantity:  sp.stock,
			Reason:    "initial stock",
			UserID:    admin.ID,
			User:      inventory.UserRef{ID: admin.ID, Email: admin.Email},
			CreatedAt: now.Add(-24 * time.Hour),
		}}, s.movements...)
		s.rules = append(s.rules, alerts.Rule{
			ID:                uuid.NewString(),
			ProductID:         p.ID,
			Product:           alerts.ProductRef{ID: p.ID, Name: p.Name, SKU: p.SKU},
			MinStockThreshold: sp.threshold,
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if sp.stock < sp.threshold {
			s.evaluateAlerts(p.ID, p.Name, p.SKU, sp.stock)
		}
	}
}
