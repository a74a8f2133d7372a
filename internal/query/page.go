package query

// window is the slice of the result set one request reads.
type window struct {
	size   int // page size
	offset int // offset within the text-bounded result set
	limit  int // rows to fetch; zero when the page lies past the end
}

// newWindow resolves the request's paging against the text's own LIMIT. An
// explicit offset wins over a page number.
func (e *Executor) newWindow(req Request, textLimit *int) window {
	size := req.Limit
	if size <= 0 {
		size = e.opts.defaultLimit
	}
	if e.opts.maxLimit > 0 && size > e.opts.maxLimit {
		size = e.opts.maxLimit
	}

	w := window{size: size}
	switch {
	case req.Offset != nil:
		w.offset = max(*req.Offset, 0)
	case req.Page > 1:
		w.offset = (req.Page - 1) * size
	}

	w.limit = size
	if textLimit != nil {
		w.limit = min(size, *textLimit-w.offset)
	}
	w.limit = max(w.limit, 0)
	return w
}

// total returns how many rows the text-bounded result set holds given the
// unbounded count.
func total(countAll int, textLimit, textOffset *int) int {
	n := countAll
	if textOffset != nil {
		n -= *textOffset
	}
	n = max(n, 0)
	if textLimit != nil {
		n = min(n, max(*textLimit, 0))
	}
	return n
}

func (w window) fill(resp *Response, totalCount int) {
	resp.TotalCount = totalCount
	resp.Limit = w.size
	resp.Offset = w.offset
	resp.PageNo = w.offset/w.size + 1
	resp.TotalPages = (totalCount + w.size - 1) / w.size
	resp.HasPrev = w.offset > 0
	resp.HasNext = w.offset+resp.Count < totalCount
}
