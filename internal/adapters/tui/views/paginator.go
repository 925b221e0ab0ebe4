package views

// Paginator keeps a cursor over a list of n rows and the window of rows
// shown around it. The search, versions and templates lists share it.
type Paginator struct {
	size   int
	offset int
	cursor int
	total  int
}

// NewPaginator returns a paginator showing size rows at a time
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = 10
	}
	return &Paginator{size: size}
}

// SetPageSize resizes the window after a terminal resize
func (p *Paginator) SetPageSize(size int) {
	if size > 0 {
		p.size = size
		p.follow()
	}
}

// SetTotal updates the row count and pulls the cursor back inside it
func (p *Paginator) SetTotal(total int) {
	p.total = total
	p.SetCursor(p.cursor)
}

func (p *Paginator) Cursor() int { return p.cursor }

// SetCursor moves the cursor to pos, clamped to the rows
func (p *Paginator) SetCursor(pos int) {
	p.cursor = clamp(pos, 0, max(p.total-1, 0))
	p.follow()
}

// CursorUp reports whether the cursor moved
func (p *Paginator) CursorUp() bool {
	if p.cursor == 0 {
		return false
	}
	p.SetCursor(p.cursor - 1)
	return true
}

// CursorDown reports whether the cursor moved
func (p *Paginator) CursorDown() bool {
	if p.cursor >= p.total-1 {
		return false
	}
	p.SetCursor(p.cursor + 1)
	return true
}

// VisibleRange is the half-open row range of the current page
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

func (p *Paginator) TotalPages() int {
	return max(1, (p.total+p.size-1)/p.size)
}

// CurrentPage is 1-based
func (p *Paginator) CurrentPage() int {
	return p.offset/p.size + 1
}

func (p *Paginator) Reset() {
	*p = Paginator{size: p.size}
}

// RemoveAtCursor drops the row under the cursor, e.g. after a version
// is deleted, and returns the new cursor.
func (p *Paginator) RemoveAtCursor() int {
	if p.total > 0 {
		p.SetTotal(p.total - 1)
	}
	return p.cursor
}

// follow snaps the window to the page holding the cursor
func (p *Paginator) follow() {
	if p.cursor < p.offset || p.cursor >= p.offset+p.size {
		p.offset = (p.cursor / p.size) * p.size
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
