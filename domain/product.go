// Package domain defines the API types and interfaces of the inventory
// client.
package domain

import (
	"context"

	"stockctl/query"
)

// DateLayout is the wire format for expiration dates.
const DateLayout = "2006-01-02"

// Category is a product category. The metrics endpoint uses a synthetic
// category named "Overall" for the aggregate row.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a product record as returned by the backend. The id is
// assigned server-side and never generated by the client.
type Product struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	UnitPrice      float64  `json:"unitPrice"`
	ExpirationDate string   `json:"expirationDate,omitempty"` // ISO date, "" = none
	Stock          int      `json:"stock"`
}

// ProductRequest is the body sent on create and update.
type ProductRequest struct {
	Name           string   `json:"name" validate:"required,max=120"`
	Category       Category `json:"category"`
	UnitPrice      float64  `json:"unitPrice" validate:"gt=0"`
	ExpirationDate string   `json:"expirationDate,omitempty" validate:"omitempty,freshdate"`
	Stock          int      `json:"stock" validate:"gte=0"`
}

// PaginatedProducts is one page of the product list.
type PaginatedProducts struct {
	Products      []Product `json:"products"`
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
}

// Metric is a precomputed per-category stock aggregate. Quantity is the
// units in stock, Value the stock valued at unit price, AveragePrice
// Value/Quantity.
type Metric struct {
	Category     Category `json:"category"`
	Quantity     int      `json:"quantity"`
	Value        float64  `json:"value"`
	AveragePrice float64  `json:"averagePrice"`
}

// DefaultRestockQuantity is the stock level SetInStock applies when the
// caller does not choose one, matching the backend's default.
const DefaultRestockQuantity = 10

// ProductAPI is the backend surface the client consumes. Implementations
// are an HTTP client against the REST backend and local fakes for tests and
// offline use.
type ProductAPI interface {
	ListProducts(ctx context.Context, params query.Params) (PaginatedProducts, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (Product, error)
	UpdateProduct(ctx context.Context, id int64, req ProductRequest) (Product, error)
	DeleteProduct(ctx context.Context, id int64) (Product, error)
	SetOutOfStock(ctx context.Context, id int64) (Product, error)
	SetInStock(ctx context.Context, id int64, quantity int) (Product, error)
	Metrics(ctx context.Context) ([]Metric, error)
	Categories(ctx context.Context) ([]Category, error)
	Category(ctx context.Context, id int64) (Category, error)
}
