// Package book implements the page-spread navigation model of the
// storybook viewer: page 0 is a standalone cover, subsequent pages are
// shown as two-page spreads, and an odd tail page is shown alone.
package book

import "fmt"

// Navigator is the pure navigation state of an open storybook.
// TotalPages counts the cover. A zero TotalPages means there is nothing
// to render and every predicate reports false.
type Navigator struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// NewNavigator opens a book of totalPages pages at the cover.
func NewNavigator(totalPages int) Navigator {
	if totalPages < 0 {
		totalPages = 0
	}
	return Navigator{CurrentPage: 0, TotalPages: totalPages}
}

// IsCover reports whether the cover is displayed.
func (n Navigator) IsCover() bool {
	return n.TotalPages > 0 && n.CurrentPage == 0
}

// IsLastPageSingle reports whether the final page has no spread
// partner. Следует из четности числа внутренних страниц.
func (n Navigator) IsLastPageSingle() bool {
	return n.TotalPages > 0 && (n.TotalPages-1)%2 != 0
}

// IsSinglePageView reports whether exactly one page is displayed.
func (n Navigator) IsSinglePageView() bool {
	if n.TotalPages == 0 {
		return false
	}
	if n.IsCover() {
		return true
	}
	return n.CurrentPage == n.TotalPages-1 && n.IsLastPageSingle()
}

// CanGoNext reports whether GoToNext changes the position.
func (n Navigator) CanGoNext() bool {
	if n.TotalPages == 0 {
		return false
	}
	return (n.CurrentPage == 0 && n.TotalPages > 1) || n.CurrentPage+2 < n.TotalPages
}

// CanGoPrevious reports whether GoToPrevious changes the position.
func (n Navigator) CanGoPrevious() bool {
	return n.TotalPages > 0 && n.CurrentPage > 0
}

// GoToNext advances by one view: the cover opens onto the first spread,
// a spread advances two pages. The position never passes the last page.
func (n Navigator) GoToNext() Navigator {
	if !n.CanGoNext() {
		return n
	}
	if n.CurrentPage == 0 {
		n.CurrentPage = 1
		return n
	}
	next := n.CurrentPage + 2
	if next > n.TotalPages-1 {
		next = n.TotalPages - 1
	}
	n.CurrentPage = next
	return n
}

// GoToPrevious steps back by one view, mirroring GoToNext.
func (n Navigator) GoToPrevious() Navigator {
	if !n.CanGoPrevious() {
		return n
	}
	if n.CurrentPage == 1 {
		n.CurrentPage = 0
		return n
	}
	prev := n.CurrentPage - 2
	if prev < 0 {
		prev = 0
	}
	n.CurrentPage = prev
	return n
}

// GoTo jumps to an arbitrary page index, clamped to the valid range.
// Внутренний индекс четной страницы нормализуется к началу разворота.
func (n Navigator) GoTo(page int) Navigator {
	if n.TotalPages == 0 {
		return n
	}
	if page < 0 {
		page = 0
	}
	if page > n.TotalPages-1 {
		page = n.TotalPages - 1
	}
	// Развороты начинаются с нечетных индексов; четная внутренняя
	// страница сдвигается к началу своего разворота.
	if page > 0 && page%2 == 0 {
		page--
	}
	n.CurrentPage = page
	return n
}

// VisiblePages returns the page indices currently displayed, in order.
func (n Navigator) VisiblePages() []int {
	if n.TotalPages == 0 {
		return nil
	}
	if n.IsSinglePageView() {
		return []int{n.CurrentPage}
	}
	return []int{n.CurrentPage, n.CurrentPage + 1}
}

// Label returns the position caption shown in the viewer.
func (n Navigator) Label() string {
	switch {
	case n.TotalPages == 0:
		return ""
	case n.IsCover():
		return "Cover"
	case n.IsSinglePageView():
		return fmt.Sprintf("Page %d", n.CurrentPage)
	default:
		return fmt.Sprintf("Pages %d-%d", n.CurrentPage, n.CurrentPage+1)
	}
}
