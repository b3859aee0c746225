// Package pagination computes page windows and the pagination strip shown
// under the expense table.
package pagination

// PageSize is the default number of rows per page.
const PageSize = 10

type Kind int

const (
	KindPrev Kind = iota
	KindPage
	KindGap
	KindNext
)

// Item is one element of the strip. Number is the page a click navigates to;
// it is zero for gaps and for disabled prev/next.
type Item struct {
	Kind     Kind
	Number   int
	Current  bool
	Disabled bool
}

func (i Item) IsPrev() bool { return i.Kind == KindPrev }
func (i Item) IsNext() bool { return i.Kind == KindNext }
func (i Item) IsGap() bool  { return i.Kind == KindGap }
func (i Item) IsPage() bool { return i.Kind == KindPage }

// Window returns limit and offset for a 1-based page.
func Window(page, size int) (limit, offset int) {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	return size, (page - 1) * size
}

// TotalPages is ceil(total/size), never less than 1.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp moves page into [1, totalPages].
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Strip lays out the pagination controls for page out of total records.
func Strip(page, total, size int) []Item {
	last := TotalPages(total, size)
	p := Clamp(page, last)

	items := make([]Item, 0, 9)
	if p > 1 {
		items = append(items, Item{Kind: KindPrev, Number: p - 1})
	} else {
		items = append(items, Item{Kind: KindPrev, Disabled: true})
	}
	if p > 2 {
		items = append(items, Item{Kind: KindPage, Number: 1})
	}
	if p > 3 {
		items = append(items, Item{Kind: KindGap})
	}
	if p > 1 {
		items = append(items, Item{Kind: KindPage, Number: p - 1})
	}
	items = append(items, Item{Kind: KindPage, Number: p, Current: true})
	if p < last {
		items = append(items, Item{Kind: KindPage, Number: p + 1})
	}
	if p < last-2 {
		items = append(items, Item{Kind: KindGap})
	}
	if p < last-1 {
		items = append(items, Item{Kind: KindPage, Number: last})
	}
	if p < last {
		items = append(items, Item{Kind: KindNext, Number: p + 1})
	} else {
		items = append(items, Item{Kind: KindNext, Disabled: true})
	}
	return items
}
