// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// DefaultPerPage is the default number of rows in paged listings.
const DefaultPerPage = 50

// MaxPerPage caps page size so a caller cannot pull the whole store at once.
const MaxPerPage = 200

// Page is a 1-based page request.
type Page struct {
	Page    int
	PerPage int
}

// FromRequest extracts "page" and "per_page" query parameters, clamping them
// to sane bounds. Missing or invalid values fall back to page 1 / default size.
func FromRequest(r *http.Request) Page {
	p := Page{Page: 1, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && n >= 1 {
		p.PerPage = n
		if p.PerPage > MaxPerPage {
			p.PerPage = MaxPerPage
		}
	}
	return p
}

// Normalize clamps a hand-built Page the same way FromRequest does.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Skip returns the number of documents to skip for Mongo Find().SetSkip.
func (p Page) Skip() int64 {
	return int64(p.Page-1) * int64(p.PerPage)
}

// Limit returns the page size as int64 for Mongo Find().SetLimit.
func (p Page) Limit() int64 {
	return int64(p.PerPage)
}

// TotalPages computes the page count for a total row count.
func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	pages := total / int64(p.PerPage)
	if total%int64(p.PerPage) != 0 {
		pages++
	}
	return int(pages)
}
