package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestProductNotFoundError(t *testing.T) {
	err := NewProductNotFoundError(42)

	if !IsProductNotFoundError(err) {
		t.Fatalf("expected IsProductNotFoundError to be true")
	}
	if IsInvalidProductError(err) {
		t.Fatalf("not-found error misclassified as invalid-product")
	}
	if !strings.Contains(err.Error(), "id=42") {
		t.Fatalf("message should carry the id: %q", err.Error())
	}
}

func TestProductNotFoundErrorThroughWrapping(t *testing.T) {
	err := fmt.Errorf("fetching: %w", NewProductNotFoundError(7))
	if !IsProductNotFoundError(err) {
		t.Fatalf("wrapped not-found error not detected")
	}
	if !errors.Is(err, &ProductNotFoundError{}) {
		t.Fatalf("errors.Is should match any ProductNotFoundError")
	}
}

func TestInvalidProductError(t *testing.T) {
	err := NewInvalidProductError("unitPrice", "must be positive", -3.5)

	if !IsInvalidProductError(err) {
		t.Fatalf("expected IsInvalidProductError to be true")
	}
	msg := err.Error()
	if !strings.Contains(msg, "unitPrice") || !strings.Contains(msg, "must be positive") {
		t.Fatalf("message should carry field and reason: %q", msg)
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(503, "backend unavailable")

	if !IsAPIError(err) {
		t.Fatalf("expected IsAPIError to be true")
	}
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("errors.As should extract *APIError")
	}
	if ae.Status != 503 {
		t.Fatalf("status = %d, want 503", ae.Status)
	}
	if !strings.Contains(err.Error(), "backend unavailable") {
		t.Fatalf("message lost: %q", err.Error())
	}

	bare := NewAPIError(500, "")
	if !strings.Contains(bare.Error(), "500") {
		t.Fatalf("status lost without message: %q", bare.Error())
	}
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"stock": "must not be negative",
		"name":  "is required",
	}}

	if !IsValidationError(err) {
		t.Fatalf("expected IsValidationError to be true")
	}
	// fields render sorted so the message is deterministic
	want := "validation failed: name: is required; stock: must not be negative"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestErrorFamiliesAreDistinct(t *testing.T) {
	notFound := NewProductNotFoundError(1)
	apiErr := NewAPIError(500, "boom")

	if errors.Is(notFound, &APIError{}) {
		t.Fatalf("not-found matched APIError")
	}
	if errors.Is(apiErr, &ProductNotFoundError{}) {
		t.Fatalf("api error matched ProductNotFoundError")
	}
}
