package cli

import (
	"strings"
	"testing"

	"stockctl/api"
	"stockctl/domain"
)

func TestCreateRejectsInvalidRequest(t *testing.T) {
	defer resetCLI()
	backend = api.NewMemory()

	_, err := run("create", "--name", "", "--category", "1", "--price", "-1")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "name") || !strings.Contains(msg, "unitPrice") {
		t.Fatalf("error should name the offending fields: %q", msg)
	}
}

func TestCreateRejectsPastExpiration(t *testing.T) {
	defer resetCLI()
	backend = api.NewMemory()

	_, err := run(
		"create",
		"--name", "Old Milk",
		"--category", "3",
		"--price", "2.5",
		"--expires", "2020-01-01",
	)
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestInvalidIDArgument(t *testing.T) {
	defer resetCLI()
	backend = api.NewMemory()

	if _, err := run("get", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	if _, err := run("delete", "--force", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestListRejectsBadSortFlags(t *testing.T) {
	defer resetCLI()
	backend = api.NewMemory()

	cases := []struct {
		name string
		args []string
	}{
		{"unknown field", []string{"list", "--sort-by", "weight"}},
		{"too many keys", []string{"list", "--sort-by", "name-price-stock"}},
		{"duplicate key", []string{"list", "--sort-by", "name-name"}},
		{"bad direction", []string{"list", "--sort-by", "name", "--direction", "sideways"}},
		{"bad availability", []string{"list", "--available", "maybe"}},
		{"bad category ids", []string{"list", "--category", "1-x"}},
	}
	for _, tc := range cases {
		if _, err := run(tc.args...); err == nil {
			t.Errorf("%s: expected error for %v", tc.name, tc.args)
		}
	}
}

func TestUnknownBackendKind(t *testing.T) {
	defer func() {
		rootCmd.PersistentFlags().Set("backend", "http")
		resetCLI()
	}()
	backend = nil

	rootCmd.PersistentFlags().Set("backend", "bogus")
	if _, err := run("categories"); err == nil {
		t.Fatalf("expected error for unknown backend kind")
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	defer resetCLI()
	backend = api.NewMemory()

	_, err := run("update", "42", "--price", "1.0")
	if !domain.IsProductNotFoundError(err) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
}
