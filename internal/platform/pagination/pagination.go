package pagination

// Page is one slice of a list as shown by the console's list views.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// HasPrev and HasNext drive the previous/next controls.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Paginate slices list deterministically. page is clamped to
// [1, ceil(len/pageSize)]; an empty list is page 1 of 1. pageSize below 1 is
// treated as 1. The returned items share no backing array with list.
func Paginate[T any](list []T, pageSize, page int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(list)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, list[start:end])

	return Page[T]{
		Items:      items,
		Number:     page,
		Size:       pageSize,
		TotalPages: totalPages,
		TotalItems: total,
	}
}

// Cursor remembers the requested page of a filtered list view. Changing the
// filter puts it back on page 1.
type Cursor struct {
	page int
}

func (c *Cursor) Reset()       { c.page = 1 }
func (c *Cursor) Set(page int) { c.page = page }

// Page returns the requested page number, never below 1. Clamping to the upper
// bound happens in Paginate because it depends on the list length.
func (c *Cursor) Page() int {
	if c.page < 1 {
		return 1
	}
	return c.page
}
