package internal

// PageEntry is one slot in a pagination control: either a concrete page
// number or an ellipsis marker standing in for a skipped run of pages.
type PageEntry struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

var ellipsisEntry = PageEntry{Ellipsis: true}

// PageRange computes the display sequence of page links for a pagination
// control. currentPage is 1-indexed and clamped into range; siblingCount is
// how many pages to show on each side of the current page. When the total
// is small enough that every page fits within siblingCount*2+5 slots the
// full range is returned with no markers. Pure and deterministic.
func PageRange(currentPage, totalPageCount, siblingCount int) []PageEntry {
	if totalPageCount <= 0 {
		return []PageEntry{}
	}
	if siblingCount < 0 {
		siblingCount = 0
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPageCount {
		currentPage = totalPageCount
	}

	// first + last + current + 2 siblings per side + 2 marker slots
	totalSlots := siblingCount*2 + 5
	if totalPageCount <= totalSlots {
		return pageRun(1, totalPageCount)
	}

	leftSibling := currentPage - siblingCount
	if leftSibling < 1 {
		leftSibling = 1
	}
	rightSibling := currentPage + siblingCount
	if rightSibling > totalPageCount {
		rightSibling = totalPageCount
	}

	elideLeft := leftSibling > 2
	elideRight := rightSibling < totalPageCount-2

	switch {
	case !elideLeft && elideRight:
		run := 3 + 2*siblingCount
		out := pageRun(1, run)
		out = append(out, ellipsisEntry, PageEntry{Page: totalPageCount})
		return out
	case elideLeft && !elideRight:
		run := 3 + 2*siblingCount
		out := make([]PageEntry, 0, run+2)
		out = append(out, PageEntry{Page: 1}, ellipsisEntry)
		return append(out, pageRun(totalPageCount-run+1, totalPageCount)...)
	case elideLeft && elideRight:
		out := make([]PageEntry, 0, rightSibling-leftSibling+5)
		out = append(out, PageEntry{Page: 1}, ellipsisEntry)
		out = append(out, pageRun(leftSibling, rightSibling)...)
		return append(out, ellipsisEntry, PageEntry{Page: totalPageCount})
	default:
		return pageRun(1, totalPageCount)
	}
}

// PageCount derives the total page count for a filtered result set.
func PageCount(totalCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

func pageRun(from, to int) []PageEntry {
	if to < from {
		return []PageEntry{}
	}
	out := make([]PageEntry, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, PageEntry{Page: p})
	}
	return out
}
