// Package domain defines error types for the inventory client.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ProductNotFoundError is returned when a product with the given ID is not found
type ProductNotFoundError struct {
	ProductID int64
}

// Error implements the error interface for ProductNotFoundError
func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: id=%d", e.ProductID)
}

// Is allows proper error type checking with errors.Is()
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

// InvalidProductError is returned when product validation fails
type InvalidProductError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for InvalidProductError
func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("invalid product: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidProductError) Is(target error) bool {
	_, ok := target.(*InvalidProductError)
	return ok
}

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface for APIError
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status=%d", e.Status)
	}
	return fmt.Sprintf("api error: status=%d, message=%s", e.Status, e.Message)
}

// Is allows proper error type checking with errors.Is()
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}

// ValidationError carries per-field messages from local request validation.
// It blocks submission before the backend is contacted.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is allows proper error type checking with errors.Is()
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// Helper functions for creating errors with context

// NewProductNotFoundError creates a new ProductNotFoundError
func NewProductNotFoundError(productID int64) error {
	return &ProductNotFoundError{ProductID: productID}
}

// NewInvalidProductError creates a new InvalidProductError
func NewInvalidProductError(field, reason string, value interface{}) error {
	return &InvalidProductError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewAPIError creates a new APIError
func NewAPIError(status int, message string) error {
	return &APIError{Status: status, Message: message}
}

// Type assertion helpers for use with errors.As()

// IsProductNotFoundError checks if an error is a ProductNotFoundError
func IsProductNotFoundError(err error) bool {
	var pnf *ProductNotFoundError
	return errors.As(err, &pnf)
}

// IsInvalidProductError checks if an error is an InvalidProductError
func IsInvalidProductError(err error) bool {
	var ipe *InvalidProductError
	return errors.As(err, &ipe)
}

// IsAPIError checks if an error is an APIError
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
