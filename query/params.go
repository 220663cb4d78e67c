// Package query models the filter/sort/pagination parameters sent to the
// products endpoint and the patches that mutate them.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize matches the backend's default when no size is sent.
const DefaultPageSize = 10

// Params is the full request state for a product list fetch. Values are
// treated as immutable; Apply returns a new Params rather than mutating.
type Params struct {
	Name        string  // substring filter, "" = no filter
	CategoryIDs []int64 // empty = all categories
	Available   *bool   // nil = both, true = stock>0, false = stock==0
	Sort        Sort
	Page        int
	Size        int
}

// Default returns the params used on first fetch: no filters, first page.
func Default() Params {
	return Params{Size: DefaultPageSize}
}

// fieldState distinguishes "leave untouched" from "clear the filter" from
// "set a new value". A zero Field is untouched.
type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldCleared
	fieldSet
)

// Field is a tagged optional used in Patch.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a Field carrying a new value.
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a Field that resets the target to its zero/default value.
func Clear[T any]() Field[T] {
	return Field[T]{state: fieldCleared}
}

// Patch is a partial update of Params. Zero-valued fields leave the current
// value untouched; Clear fields drop the filter entirely.
type Patch struct {
	Name        Field[string]
	CategoryIDs Field[[]int64]
	Available   Field[bool]
	Sort        Field[Sort]
	Page        Field[int]
	Size        Field[int]
}

// Apply merges a patch into p and returns the result. Later patches win for
// overlapping fields; disjoint patches commute.
func (p Params) Apply(patch Patch) Params {
	out := p
	out.CategoryIDs = append([]int64(nil), p.CategoryIDs...)
	out.Sort = p.Sort.clone()

	switch patch.Name.state {
	case fieldSet:
		out.Name = patch.Name.value
	case fieldCleared:
		out.Name = ""
	}
	switch patch.CategoryIDs.state {
	case fieldSet:
		out.CategoryIDs = append([]int64(nil), patch.CategoryIDs.value...)
	case fieldCleared:
		out.CategoryIDs = nil
	}
	switch patch.Available.state {
	case fieldSet:
		v := patch.Available.value
		out.Available = &v
	case fieldCleared:
		out.Available = nil
	}
	switch patch.Sort.state {
	case fieldSet:
		out.Sort = patch.Sort.value.clone()
	case fieldCleared:
		out.Sort = Sort{}
	}
	switch patch.Page.state {
	case fieldSet:
		out.Page = patch.Page.value
	case fieldCleared:
		out.Page = 0
	}
	switch patch.Size.state {
	case fieldSet:
		out.Size = patch.Size.value
	case fieldCleared:
		out.Size = DefaultPageSize
	}
	return out
}

// Values encodes the params as the backend's query string. Category ids and
// sort keys/directions are hyphen-joined, mirroring the server's parsing.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Name != "" {
		v.Set("name", p.Name)
	}
	if len(p.CategoryIDs) > 0 {
		v.Set("category", JoinCategoryIDs(p.CategoryIDs))
	}
	if p.Available != nil {
		v.Set("available", strconv.FormatBool(*p.Available))
	}
	if len(p.Sort.Keys) > 0 {
		v.Set("sortBy", p.Sort.joinKeys())
		v.Set("direction", p.Sort.joinDirs())
	}
	v.Set("page", strconv.Itoa(p.Page))
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	v.Set("size", strconv.Itoa(size))
	return v
}

// JoinCategoryIDs renders ids in the wire format, e.g. "1-3-4".
func JoinCategoryIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "-")
}

// ParseCategoryIDs parses the wire format back into ids. Empty input yields
// nil (all categories).
func ParseCategoryIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, "-") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
