package pagination

// FirstPageNumber is the number of the first page of every result set.
const FirstPageNumber = 1

// Descriptor holds the page metadata computed for one page request.
// It is a value type: copies are independent and nothing mutates it after
// NewDescriptor returns.
type Descriptor struct {
	TotalCount         int  `json:"total_count"`
	PageSize           int  `json:"page_size"`
	PageNumber         int  `json:"page_number"`
	PageCount          int  `json:"page_count"`
	FirstPageNumber    int  `json:"first_page_number"`
	LastPageNumber     int  `json:"last_page_number"`
	PreviousPageNumber *int `json:"previous_page_number,omitempty"`
	NextPageNumber     *int `json:"next_page_number,omitempty"`
}

// NewDescriptor computes the page metadata for totalCount items split in pages
// of pageSize, positioned at pageNumber.
//
// An empty result set is page 1 of 1 whatever page was requested. A page number
// past the last page is otherwise kept as requested, so callers can tell an
// out-of-range request apart from the last page.
func NewDescriptor(totalCount, pageNumber, pageSize int) (Descriptor, error) {
	if pageNumber < 1 {
		return Descriptor{}, InvalidArgument("pageNumber", "page number can't be smaller than 1")
	}
	if pageSize < 1 {
		return Descriptor{}, InvalidArgument("pageSize", "page size can't be smaller than 1")
	}
	if totalCount < 0 {
		return Descriptor{}, InvalidArgument("totalCount", "total count can't be negative")
	}

	pageCount := pageCountFor(totalCount, pageSize)

	d := Descriptor{
		TotalCount:      totalCount,
		PageSize:        pageSize,
		PageNumber:      pageNumber,
		PageCount:       pageCount,
		FirstPageNumber: FirstPageNumber,
	}
	if pageCount == 0 {
		d.PageCount = 1
		d.PageNumber = 1
	}
	d.LastPageNumber = d.PageCount

	if d.PageNumber > 1 {
		prev := d.PageNumber - 1
		d.PreviousPageNumber = &prev
	}
	if d.PageNumber < d.PageCount {
		next := d.PageNumber + 1
		d.NextPageNumber = &next
	}

	return d, nil
}

// pageCountFor is ceil(total/size) in integer arithmetic.
func pageCountFor(total, size int) int {
	return (total + size - 1) / size
}

// HasPrevious reports whether a page precedes this one.
func (d Descriptor) HasPrevious() bool {
	return d.PreviousPageNumber != nil
}

// HasNext reports whether a page follows this one.
func (d Descriptor) HasNext() bool {
	return d.NextPageNumber != nil
}

// Offset is the zero-based index of the first item on the page.
func (d Descriptor) Offset() int {
	return (d.PageNumber - 1) * d.PageSize
}

// Limit is the number of items a source must hold for this page to be full.
func (d Descriptor) Limit() int {
	return d.PageNumber * d.PageSize
}

// clone returns a copy that does not share neighbour storage with d.
func (d Descriptor) clone() Descriptor {
	out := d
	if d.PreviousPageNumber != nil {
		prev := *d.PreviousPageNumber
		out.PreviousPageNumber = &prev
	}
	if d.NextPageNumber != nil {
		next := *d.NextPageNumber
		out.NextPageNumber = &next
	}
	return out
}
