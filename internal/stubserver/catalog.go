package stubserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventrack/console/internal/categories"
	"github.com/inventrack/console/internal/products"
)

// --- products ---

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var minPrice, maxPrice *decimal.Decimal
	if raw := q.Get("minPrice"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			minPrice = &d
		}
	}
	if raw := q.Get("maxPrice"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			maxPrice = &d
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]products.Product, 0, len(s.products))
	for _, p := range s.products {
		if name := q.Get("name"); name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			continue
		}
		if sku := q.Get("sku"); sku != "" && p.SKU != sku {
			continue
		}
		if catID := q.Get("categoryId"); catID != "" && p.Category.ID != catID {
			continue
		}
		if minPrice != nil && p.Price.LessThan(*minPrice) {
			continue
		}
		if maxPrice != nil && p.Price.GreaterThan(*maxPrice) {
			continue
		}
		p.Stock = s.stock[p.ID]
		out = append(out, p)
	}
	writeSuccess(w, out)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in products.CreateInput
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
	for _, p := range s.products {
		if p.SKU == in.SKU {
			writeError(w, http.StatusConflict, "sku already exists")
			return
		}
	}
	cat, ok := s.findCategory(in.CategoryID)
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	now := s.now()
	p := products.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		SKU:         in.SKU,
		Description: in.Description,
		Price:       in.Price,
		Category:    products.CategoryRef{ID: cat.ID, Name: cat.Name},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products = append(s.products, p)
	writeCreated(w, p)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			p.Stock = s.stock[p.ID]
			writeSuccess(w, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "product not found")
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in products.UpdateInput
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
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.SKU != nil {
			p.SKU = *in.SKU
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.CategoryID != nil {
			cat, ok := s.findCategory(*in.CategoryID)
			if !ok {
				writeError(w, http.StatusNotFound, "category not found")
				return
			}
			p.Category = products.CategoryRef{ID: cat.ID, Name: cat.Name}
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		p.UpdatedAt = s.now()
		updated := *p
		updated.Stock = s.stock[updated.ID]
		writeSuccess(w, updated)
		return
	}
	writeError(w, http.StatusNotFound, "product not found")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeSuccess(w, map[string]string{"_id": id})
			return
		}
	}
	writeError(w, http.StatusNotFound, "product not found")
}

func (s *Server) findCategory(id string) (categories.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return categories.Category{}, false
}

func (s *Server) findProduct(id string) (products.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return products.Product{}, false
}

// --- categories ---

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]categories.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if !c.IsActive && !includeInactive {
			continue
		}
		out = append(out, c)
	}
	writeSuccess(w, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categories.CreateInput
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
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, in.Name) {
			writeError(w, http.StatusConflict, "category name already exists")
			return
		}
	}
	now := s.now()
	c := categories.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.categories = append(s.categories, c)
	writeCreated(w, c)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.findCategory(id); ok {
		writeSuccess(w, c)
		return
	}
	writeError(w, http.StatusNotFound, "category not found")
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in categories.UpdateInput
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
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		c := &s.categories[i]
		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if in.IsActive != nil {
			c.IsActive = *in.IsActive
		}
		c.UpdatedAt = s.now()
		writeSuccess(w, *c)
		return
	}
	writeError(w, http.StatusNotFound, "category not found")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Category.ID == id {
			writeError(w, http.StatusConflict, "category has products")
			return
		}
	}
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			writeSuccess(w, map[string]string{"_id": id})
			return
		}
	}
	writeError(w, http.StatusNotFound, "category not found")
}
