package api

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"stockctl/domain"
	"stockctl/query"
)

// Memory is a thread-safe in-memory backend that replicates the REST
// backend's list semantics (filtering, multi-key sorting, pagination and
// metrics). It backs tests and the offline shell.
type Memory struct {
	mu         sync.RWMutex
	products   map[int64]domain.Product
	categories []domain.Category
	nextID     int64
}

// compile-time assertion that Memory implements domain.ProductAPI
var _ domain.ProductAPI = (*Memory)(nil)

// NewMemory constructs a Memory backend seeded with the backend's stock
// category set.
func NewMemory() *Memory {
	return &Memory{
		products: make(map[int64]domain.Product),
		categories: []domain.Category{
			{ID: 1, Name: "Electronics"},
			{ID: 2, Name: "Cleaning"},
			{ID: 3, Name: "Food"},
			{ID: 4, Name: "Entertainment"},
		},
		nextID: 1,
	}
}

func (m *Memory) ListProducts(ctx context.Context, params query.Params) (domain.PaginatedProducts, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaginatedProducts{}, err
	}

	m.mu.RLock()
	filtered := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if matches(p, params) {
			filtered = append(filtered, p)
		}
	}
	m.mu.RUnlock()

	sortProducts(filtered, params.Sort)

	size := params.Size
	if size <= 0 {
		size = query.DefaultPageSize
	}
	total := len(filtered)
	totalPages := int(math.Ceil(float64(total) / float64(size)))

	start := params.Page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return domain.PaginatedProducts{
		Products:      filtered[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          params.Page,
		Size:          size,
	}, nil
}

func matches(p domain.Product, params query.Params) bool {
	if params.Name != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Name)) {
		return false
	}
	if len(params.CategoryIDs) > 0 {
		found := false
		for _, id := range params.CategoryIDs {
			if p.Category.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if params.Available != nil {
		if *params.Available {
			return p.Stock > 0
		}
		return p.Stock == 0
	}
	return true
}

// sortProducts orders products by the active sort keys, highest precedence
// first. With no keys it falls back to name ascending, like the backend.
func sortProducts(products []domain.Product, s query.Sort) {
	keys := s.Keys
	dirs := s.Dirs
	if len(keys) == 0 {
		keys = []query.SortField{query.SortByName}
		dirs = []query.Direction{query.Asc}
	}
	sort.SliceStable(products, func(i, j int) bool {
		for k, key := range keys {
			c := compareBy(products[i], products[j], key)
			if c == 0 {
				continue
			}
			if dirs[k] == query.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareBy(a, b domain.Product, key query.SortField) int {
	switch key {
	case query.SortByCategory:
		return strings.Compare(strings.ToLower(a.Category.Name), strings.ToLower(b.Category.Name))
	case query.SortByPrice:
		switch {
		case a.UnitPrice < b.UnitPrice:
			return -1
		case a.UnitPrice > b.UnitPrice:
			return 1
		}
		return 0
	case query.SortByStock:
		return a.Stock - b.Stock
	case query.SortByExpiration:
		return strings.Compare(expireKey(a), expireKey(b))
	}
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// expireKey sorts missing expiration dates last; ISO dates compare
// lexicographically.
func expireKey(p domain.Product) string {
	if p.ExpirationDate == "" {
		return "9999-12-31"
	}
	return p.ExpirationDate
}

func (m *Memory) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	return p, nil
}

func validateRequest(req domain.ProductRequest) error {
	if req.Name == "" {
		return domain.NewInvalidProductError("name", "cannot be empty", req.Name)
	}
	if req.UnitPrice <= 0 {
		return domain.NewInvalidProductError("unitPrice", "must be positive", req.UnitPrice)
	}
	if req.Stock < 0 {
		return domain.NewInvalidProductError("stock", "must be non-negative", req.Stock)
	}
	if req.ExpirationDate != "" {
		if _, err := time.Parse(domain.DateLayout, req.ExpirationDate); err != nil {
			return domain.NewInvalidProductError("expirationDate", "must be YYYY-MM-DD", req.ExpirationDate)
		}
	}
	return nil
}

// resolveCategory fills in the category name from the seeded set when the
// caller only sends an id.
func (m *Memory) resolveCategory(c domain.Category) domain.Category {
	if c.Name != "" {
		return c
	}
	for _, known := range m.categories {
		if known.ID == c.ID {
			return known
		}
	}
	return c
}

func (m *Memory) CreateProduct(ctx context.Context, req domain.ProductRequest) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	if err := validateRequest(req); err != nil {
		return domain.Product{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := domain.Product{
		ID:             m.nextID,
		Name:           req.Name,
		Category:       m.resolveCategory(req.Category),
		UnitPrice:      req.UnitPrice,
		ExpirationDate: req.ExpirationDate,
		Stock:          req.Stock,
	}
	m.nextID++
	m.products[p.ID] = p
	return p, nil
}

func (m *Memory) UpdateProduct(ctx context.Context, id int64, req domain.ProductRequest) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	if err := validateRequest(req); err != nil {
		return domain.Product{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	p := domain.Product{
		ID:             id,
		Name:           req.Name,
		Category:       m.resolveCategory(req.Category),
		UnitPrice:      req.UnitPrice,
		ExpirationDate: req.ExpirationDate,
		Stock:          req.Stock,
	}
	m.products[id] = p
	return p, nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id int64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	delete(m.products, id)
	return p, nil
}

func (m *Memory) SetOutOfStock(ctx context.Context, id int64) (domain.Product, error) {
	return m.setStock(ctx, id, 0)
}

func (m *Memory) SetInStock(ctx context.Context, id int64, quantity int) (domain.Product, error) {
	if quantity < 0 {
		return domain.Product{}, domain.NewInvalidProductError("quantity", "must be non-negative", quantity)
	}
	return m.setStock(ctx, id, quantity)
}

func (m *Memory) setStock(ctx context.Context, id int64, quantity int) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	p.Stock = quantity
	m.products[id] = p
	return p, nil
}

// Metrics aggregates stock per category plus a synthetic "Overall" row,
// matching what the backend's metrics endpoint returns.
func (m *Memory) Metrics(ctx context.Context) ([]domain.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics := make([]domain.Metric, 0, len(m.categories)+1)
	overallQty := 0
	overallValue := 0.0
	for _, cat := range m.categories {
		qty := 0
		value := 0.0
		for _, p := range m.products {
			if p.Category.ID != cat.ID {
				continue
			}
			qty += p.Stock
			value += float64(p.Stock) * p.UnitPrice
		}
		avg := 0.0
		if qty > 0 {
			avg = value / float64(qty)
		}
		overallQty += qty
		overallValue += value
		metrics = append(metrics, domain.Metric{
			Category:     cat,
			Quantity:     qty,
			Value:        value,
			AveragePrice: avg,
		})
	}
	overallAvg := 0.0
	if overallQty > 0 {
		overallAvg = overallValue / float64(overallQty)
	}
	metrics = append(metrics, domain.Metric{
		Category:     domain.Category{Name: "Overall"},
		Quantity:     overallQty,
		Value:        overallValue,
		AveragePrice: overallAvg,
	})
	return metrics, nil
}

func (m *Memory) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Category(nil), m.categories...), nil
}

func (m *Memory) Category(ctx context.Context, id int64) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return domain.Category{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, cat := range m.categories {
		if cat.ID == id {
			return cat, nil
		}
	}
	return domain.Category{}, domain.NewAPIError(404, "category not found")
}

// snapshot returns all products sorted by id, for persistence and export.
func (m *Memory) snapshot() []domain.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// load replaces the product set, used by the file backend at startup.
func (m *Memory) load(products []domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = make(map[int64]domain.Product, len(products))
	for _, p := range products {
		m.products[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
}
