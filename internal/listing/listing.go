package listing

import "strings"

// Filter keeps the rows where any probed text field contains term,
// case-insensitive. An empty term returns rows unchanged.
func Filter[T any](rows []T, term string, fields func(T) []string) []T {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, f := range fields(row) {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Page slices rows into fixed-size pages. Pages are 1-based; a page past the
// end returns an empty slice, never an error.
func Page[T any](rows []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return rows
	}
	start := (page - 1) * perPage
	if start >= len(rows) {
		return []T{}
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// TotalPages is the page count for a row count at the given page size.
func TotalPages(count, perPage int) int {
	if perPage < 1 || count == 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}
