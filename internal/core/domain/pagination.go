package domain

// Fixed page sizes per listing context.
const (
	OwnerPageSize  = 10 // a manager's own request list
	GlobalPageSize = 20 // the admin's global request list
)

// PageWindow is the computed 1-indexed page window over a live total. The
// total is a snapshot taken at call time and is not guaranteed consistent
// with a concurrently fetched page.
type PageWindow struct {
	Page  int
	Pages int
	Size  int
	Total int64
}

// NewPageWindow clamps the requested page into [1, pages] where
// pages = ceil(total/size) with a floor of 1.
func NewPageWindow(total int64, page, size int) PageWindow {
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return PageWindow{Page: page, Pages: pages, Size: size, Total: total}
}

// Offset is the number of rows to skip for this window.
func (w PageWindow) Offset() int { return (w.Page - 1) * w.Size }

// HasPrev reports whether a "previous" control should be rendered.
func (w PageWindow) HasPrev() bool { return w.Page > 1 }

// HasNext reports whether a "next" control should be rendered.
func (w PageWindow) HasNext() bool { return w.Page < w.Pages }
