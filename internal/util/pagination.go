package util

// MaxPage bounds page numbers so the offset fits in 32 bits for any size.
const MaxPage = 1 << 24

// Calculate turns a 1-based page and a page size into an offset and limit.
// Out-of-range sizes fall back to 10.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	from = (page - 1) * size
	return from, size
}

type Page struct {
	Number int
	Size   int
	Total  int64
}

// NewPage normalizes number and size the same way Calculate does and pulls
// a number past the last page back onto it.
func NewPage(number, size int, total int64) Page {
	from, limit := Calculate(number, size)
	p := Page{Number: from/limit + 1, Size: limit, Total: total}
	if last := p.Pages(); p.Number > last {
		p.Number = last
	}
	return p
}

func (p Page) Pages() int {
	if p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.Pages() }

func (p Page) Prev() int { return p.Number - 1 }

func (p Page) Next() int { return p.Number + 1 }
