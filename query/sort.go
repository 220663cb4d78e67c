package query

import (
	"fmt"
	"strings"
)

// SortField names a sortable product column, in the backend's spelling.
type SortField string

const (
	SortByName       SortField = "name"
	SortByCategory   SortField = "category"
	SortByPrice      SortField = "price"
	SortByExpiration SortField = "expirationDate"
	SortByStock      SortField = "stock"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// MaxSortKeys is the maximum number of simultaneously active sort columns.
const MaxSortKeys = 2

// Sort holds the active sort keys with co-indexed directions. Keys[0] has
// the highest precedence. Invariant: len(Keys) == len(Dirs) <= MaxSortKeys,
// no duplicate keys.
type Sort struct {
	Keys []SortField
	Dirs []Direction
}

func (s Sort) clone() Sort {
	return Sort{
		Keys: append([]SortField(nil), s.Keys...),
		Dirs: append([]Direction(nil), s.Dirs...),
	}
}

func (s Sort) joinKeys() string {
	parts := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, "-")
}

func (s Sort) joinDirs() string {
	parts := make([]string, len(s.Dirs))
	for i, d := range s.Dirs {
		parts[i] = string(d)
	}
	return strings.Join(parts, "-")
}

// AdvanceSort is the transition taken when the user activates a column:
//
//   - column already sorted asc: flip to desc, keep its position
//   - column already sorted desc: remove it (third activation clears it)
//   - column not sorted: it becomes the top-priority key, ascending; if that
//     exceeds MaxSortKeys the lowest-priority key is dropped
//
// The input is never mutated.
func AdvanceSort(s Sort, clicked SortField) Sort {
	out := s.clone()
	for i, k := range out.Keys {
		if k != clicked {
			continue
		}
		if out.Dirs[i] == Asc {
			out.Dirs[i] = Desc
			return out
		}
		out.Keys = append(out.Keys[:i], out.Keys[i+1:]...)
		out.Dirs = append(out.Dirs[:i], out.Dirs[i+1:]...)
		return out
	}
	out.Keys = append([]SortField{clicked}, out.Keys...)
	out.Dirs = append([]Direction{Asc}, out.Dirs...)
	if len(out.Keys) > MaxSortKeys {
		out.Keys = out.Keys[:MaxSortKeys]
		out.Dirs = out.Dirs[:MaxSortKeys]
	}
	return out
}

// ParseSortField accepts a column name case-insensitively, the way the
// backend's sort strategy does.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortByName, nil
	case "category":
		return SortByCategory, nil
	case "price", "unitprice":
		return SortByPrice, nil
	case "expirationdate", "expiration":
		return SortByExpiration, nil
	case "stock":
		return SortByStock, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseDirection accepts "asc" or "desc" case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// ParseSort parses hyphen-joined sortBy/direction wire values, e.g.
// ("name-price", "asc-desc"). Missing directions default to ascending.
func ParseSort(sortBy, direction string) (Sort, error) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		return Sort{}, nil
	}
	rawKeys := strings.Split(sortBy, "-")
	var rawDirs []string
	if strings.TrimSpace(direction) != "" {
		rawDirs = strings.Split(direction, "-")
	}
	if len(rawKeys) > MaxSortKeys {
		return Sort{}, fmt.Errorf("at most %d sort fields allowed", MaxSortKeys)
	}
	var out Sort
	for i, rk := range rawKeys {
		key, err := ParseSortField(rk)
		if err != nil {
			return Sort{}, err
		}
		for _, existing := range out.Keys {
			if existing == key {
				return Sort{}, fmt.Errorf("duplicate sort field %q", key)
			}
		}
		dir := Asc
		if i < len(rawDirs) {
			dir, err = ParseDirection(rawDirs[i])
			if err != nil {
				return Sort{}, err
			}
		}
		out.Keys = append(out.Keys, key)
		out.Dirs = append(out.Dirs, dir)
	}
	return out, nil
}
