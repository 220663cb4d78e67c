package query

import (
	"reflect"
	"testing"
)

func TestAdvanceSort(t *testing.T) {
	tests := []struct {
		name    string
		start   Sort
		clicked SortField
		want    Sort
	}{
		{
			name:    "new field becomes top priority ascending",
			start:   Sort{},
			clicked: SortByName,
			want:    Sort{Keys: []SortField{SortByName}, Dirs: []Direction{Asc}},
		},
		{
			name:    "second click flips to descending in place",
			start:   Sort{Keys: []SortField{SortByName}, Dirs: []Direction{Asc}},
			clicked: SortByName,
			want:    Sort{Keys: []SortField{SortByName}, Dirs: []Direction{Desc}},
		},
		{
			name:    "third click removes the field",
			start:   Sort{Keys: []SortField{SortByName}, Dirs: []Direction{Desc}},
			clicked: SortByName,
			want:    Sort{Keys: []SortField{}, Dirs: []Direction{}},
		},
		{
			name:    "second field prepends at top priority",
			start:   Sort{Keys: []SortField{SortByName}, Dirs: []Direction{Desc}},
			clicked: SortByPrice,
			want: Sort{
				Keys: []SortField{SortByPrice, SortByName},
				Dirs: []Direction{Asc, Desc},
			},
		},
		{
			name: "third field evicts the lowest priority",
			start: Sort{
				Keys: []SortField{SortByPrice, SortByName},
				Dirs: []Direction{Asc, Desc},
			},
			clicked: SortByStock,
			want: Sort{
				Keys: []SortField{SortByStock, SortByPrice},
				Dirs: []Direction{Asc, Asc},
			},
		},
		{
			name: "flipping the secondary keeps its position",
			start: Sort{
				Keys: []SortField{SortByPrice, SortByName},
				Dirs: []Direction{Asc, Asc},
			},
			clicked: SortByName,
			want: Sort{
				Keys: []SortField{SortByPrice, SortByName},
				Dirs: []Direction{Asc, Desc},
			},
		},
		{
			name: "removing the primary promotes the secondary",
			start: Sort{
				Keys: []SortField{SortByPrice, SortByName},
				Dirs: []Direction{Desc, Asc},
			},
			clicked: SortByPrice,
			want:    Sort{Keys: []SortField{SortByName}, Dirs: []Direction{Asc}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdvanceSort(tt.start, tt.clicked)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("AdvanceSort = %+v, want %+v", got, tt.want)
			}
			if len(got.Keys) != len(got.Dirs) {
				t.Fatalf("keys and directions not co-indexed: %+v", got)
			}
			if len(got.Keys) > MaxSortKeys {
				t.Fatalf("more than %d sort keys: %+v", MaxSortKeys, got)
			}
		})
	}
}

func TestAdvanceSortTripleClickClears(t *testing.T) {
	s := Sort{}
	s = AdvanceSort(s, SortByStock)
	s = AdvanceSort(s, SortByStock)
	s = AdvanceSort(s, SortByStock)
	if len(s.Keys) != 0 {
		t.Fatalf("three clicks should clear the column, got %+v", s)
	}
}

func TestAdvanceSortDoesNotMutateInput(t *testing.T) {
	start := Sort{Keys: []SortField{SortByName}, Dirs: []Direction{Asc}}
	_ = AdvanceSort(start, SortByName)
	if start.Dirs[0] != Asc {
		t.Fatalf("input sort was mutated: %+v", start)
	}
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("name-price", "asc-desc")
	if err != nil {
		t.Fatalf("ParseSort: %v", err)
	}
	want := Sort{
		Keys: []SortField{SortByName, SortByPrice},
		Dirs: []Direction{Asc, Desc},
	}
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("ParseSort = %+v, want %+v", s, want)
	}
}

func TestParseSortMissingDirectionsDefaultAsc(t *testing.T) {
	s, err := ParseSort("stock-name", "desc")
	if err != nil {
		t.Fatalf("ParseSort: %v", err)
	}
	if s.Dirs[0] != Desc || s.Dirs[1] != Asc {
		t.Fatalf("missing direction should default asc: %+v", s)
	}
}

func TestParseSortRejectsBadInput(t *testing.T) {
	if _, err := ParseSort("name-price-stock", ""); err == nil {
		t.Fatalf("expected error for more than two sort fields")
	}
	if _, err := ParseSort("name-name", ""); err == nil {
		t.Fatalf("expected error for duplicate sort fields")
	}
	if _, err := ParseSort("weight", ""); err == nil {
		t.Fatalf("expected error for unknown sort field")
	}
	if _, err := ParseSort("name", "sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestParseSortFieldCaseInsensitive(t *testing.T) {
	f, err := ParseSortField("ExpirationDate")
	if err != nil || f != SortByExpiration {
		t.Fatalf("ParseSortField = %v, %v", f, err)
	}
}
